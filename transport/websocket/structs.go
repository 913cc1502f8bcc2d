package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries request and response bodies for every action. Cell is the
// coordinate being played; parsing of any user-facing text happens on the
// client, the engine only ever sees integer pairs.
type Payload struct {
	Player *entity.Player     `json:"player,omitempty"`
	Game   *entity.Game       `json:"game,omitempty"`
	Cell   *entity.Coordinate `json:"cell,omitempty"`
	Type   string             `json:"type,omitempty"`
	GameID string             `json:"game_id,omitempty"`
	Error  string             `json:"error,omitempty"`
}
