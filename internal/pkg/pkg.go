package pkg

import (
	"crypto/sha1" //nolint: gosec // mandated by RFC 6455
	"encoding/base64"

	"github.com/google/uuid"
)

// websocketGUID is the fixed GUID from RFC 6455 used to derive the accept key.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateAcceptKey - computes the Sec-WebSocket-Accept value for a client
// handshake key.
func GenerateAcceptKey(key string) string {
	hash := sha1.Sum([]byte(key + websocketGUID)) //nolint: gosec // mandated by RFC 6455
	return base64.StdEncoding.EncodeToString(hash[:])
}

// GenerateNewSessionID - a fresh unique ID for players, games and sessions.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
