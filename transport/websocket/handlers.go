package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
)

const actionGameState = "game:state"

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a new player")
	}

	that.rememberConnection(player.ID, bufrw)

	payloadResp := Payload{Player: player}

	// a reconnecting player gets its in-progress game back
	if player.GameID != "" {
		game, gameErr := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if gameErr != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", gameErr)
		} else {
			payloadResp.Game = game
		}
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	gameType := payloadReq.Type
	if gameType == "" {
		gameType = entity.PrivateType
	}

	game, err := that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, gameType)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to create a game")
	}

	that.rememberConnection(payloadReq.Player.ID, bufrw)

	payloadResp := Payload{
		Player: game.PlayerByID(payloadReq.Player.ID),
		Game:   game,
	}

	if err = that.sendMessage(bufrw, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("created game", "gameID", game.ID, "type", game.Type)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	var game *entity.Game
	if payloadReq.GameID != "" {
		game, err = that.gameUseCase.JoinGameByID(ctx, payloadReq.GameID, payloadReq.Player.ID)
	} else {
		game, err = that.gameUseCase.JoinWaitingPublicGame(ctx, payloadReq.Player.ID)
	}

	switch {
	case errors.Is(err, apperror.ErrNoActiveGames):
		return that.sendErrorResponse(bufrw, msg.Action, "no public game is waiting for an opponent")
	case errors.Is(err, apperror.ErrGameAlreadyExists):
		return that.sendErrorResponse(bufrw, msg.Action, "the game is already full")
	case err != nil:
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to join the game")
	}

	that.rememberConnection(payloadReq.Player.ID, bufrw)

	// both seats get the fresh state, so the creator learns the game started
	that.broadcastGame(game, msg.Action)

	log.Info("player joined game", "gameID", game.ID, "playerID", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	if payloadReq.Cell == nil {
		log.Error("Cell is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Cell is required")
	}

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)

	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return that.sendErrorResponse(bufrw, msg.Action, "cell is already occupied")
	case errors.Is(err, apperror.ErrNotYourTurn):
		return that.sendErrorResponse(bufrw, msg.Action, "it's not your turn")
	case errors.Is(err, apperror.ErrGameFinished):
		return that.sendErrorResponse(bufrw, msg.Action, "game is already finished")
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return that.sendErrorResponse(bufrw, msg.Action, "game is not started yet")
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to make turn")
	}

	that.broadcastGame(game, actionGameState)

	if game.IsFinished() {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
	}

	return nil
}

func (that *Server) handleLeaveGame(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleLeaveGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("Player is missing in payload")
		return that.sendErrorResponse(bufrw, msg.Action, "Player is required")
	}

	game, err := that.gameUseCase.LeaveGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to leave game", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to leave the game")
	}

	that.broadcastGame(game, msg.Action)

	log.Info("player left game", "gameID", game.ID, "playerID", payloadReq.Player.ID)

	return nil
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

// broadcastGame - pushes the game state to every seated player that still has
// a live connection.
func (that *Server) broadcastGame(game *entity.Game, action string) {
	log := that.logger.With("method", "broadcastGame")

	for _, player := range game.Players {
		conn, ok := that.connectionByPlayerID(player.ID)
		if !ok {
			continue
		}

		payload := Payload{
			Player: player,
			Game:   game,
		}

		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to push game state", "playerID", player.ID, "error", err)
		}
	}
}
