package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	PublicType  = "public"
	PrivateType = "private"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game holds a single match: the sparse board, whose turn it is, and how the
// match ended if it did. There is no draw outcome - the grid is unbounded, so
// the only board-derived terminal state is a line of five.
type Game struct {
	ID          string       `json:"id"`
	Board       *Board       `json:"board"`
	Winner      string       `json:"winner,omitempty"`
	WinningLine []Coordinate `json:"winning_line,omitempty"`
	Status      string       `json:"status"`
	Turn        string       `json:"player_turn"`
	Players     []*Player    `json:"players,omitempty"`
	Type        string       `json:"type,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  NewBoard(),
		Turn:   PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// Finish - moves the game into its terminal state. Once finished the winner
// and winning line never change.
func (that *Game) Finish(winner string, line []Coordinate) {
	that.Winner = winner
	that.WinningLine = line
	that.Status = StatusFinished
	that.Turn = EmptyCell
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

// PlayerByID - finds a seated player, nil if the ID is not part of this game.
func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
