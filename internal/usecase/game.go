package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
	"github.com/rocketscienceinc/firsttofive-backend/internal/gomoku"
	"github.com/rocketscienceinc/firsttofive-backend/internal/pkg"
	"github.com/rocketscienceinc/firsttofive-backend/internal/repository"
)

type playerRepoDep interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepoDep interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	AddWaitingPublic(ctx context.Context, id string) error
	TakeWaitingPublic(ctx context.Context) (string, error)
}

// GameUseCase drives the lifecycle of players and games around the rules
// engine: creation, matchmaking, turns and teardown of finished games.
type GameUseCase struct {
	logger *slog.Logger

	playerRepo playerRepoDep
	gameRepo   gameRepoDep
}

func NewGameUseCase(logger *slog.Logger, playerRepo playerRepoDep, gameRepo gameRepoDep) *GameUseCase {
	return &GameUseCase{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

// GetOrCreatePlayer - returns the stored player, or registers a new one. An
// empty ID means a brand new player.
func (that *GameUseCase) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player := &entity.Player{ID: pkg.GenerateNewSessionID()}
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		player = &entity.Player{ID: id}
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}

		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// GetOrCreateGame - returns the player's current game or creates a fresh one.
// The creator is seated immediately with a randomly dealt mark; a public game
// is also queued for matchmaking.
func (that *GameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		game, getErr := that.gameRepo.GetByID(ctx, player.GameID)
		if getErr == nil {
			return game, nil
		}
		if !errors.Is(getErr, repository.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to get game by id: %w", getErr)
		}
		// stale reference, fall through and start a new game
	}

	game := entity.NewGame(pkg.GenerateNewSessionID(), gameType)

	creatorMark, _ := game.GetRandomMarks()
	player.Mark = creatorMark
	player.GameID = game.ID
	game.Players = []*entity.Player{player}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if game.IsPublic() {
		if err = that.gameRepo.AddWaitingPublic(ctx, game.ID); err != nil {
			return nil, fmt.Errorf("failed to queue public game: %w", err)
		}
	}

	return game, nil
}

// JoinGameByID - seats a second player and starts the game. Joining a game
// the player is already part of is a no-op.
func (that *GameUseCase) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if game.PlayerByID(player.ID) != nil {
		return game, nil
	}

	if game.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, gameID)
	}

	player.GameID = game.ID
	player.Mark = gomoku.ToggleMark(game.Players[0].Mark)
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// JoinWaitingPublicGame - matches the player with any public game waiting for
// an opponent. ErrNoActiveGames when the queue is empty.
func (that *GameUseCase) JoinWaitingPublicGame(ctx context.Context, playerID string) (*entity.Game, error) {
	gameID, err := that.gameRepo.TakeWaitingPublic(ctx)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, apperror.ErrNoActiveGames
	}

	if err != nil {
		return nil, fmt.Errorf("failed to take waiting game: %w", err)
	}

	return that.JoinGameByID(ctx, gameID, playerID)
}

// GetGameByPlayerID - the game the player is currently part of.
func (that *GameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies one move for the player and persists the result. A
// finished game is torn down after the final state is stored in the returned
// value.
func (that *GameUseCase) MakeTurn(ctx context.Context, playerID string, cell entity.Coordinate) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if game.IsWaiting() {
		return game, apperror.ErrGameIsNotStarted
	}

	seated := game.PlayerByID(player.ID)
	if seated == nil {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrNotInThisGame, game.ID)
	}

	if err = gomoku.MakeTurn(game, seated.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		that.cleanupGame(ctx, game)
		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// LeaveGame - the player abandons the game; an ongoing game is forfeited in
// the opponent's favor.
func (that *GameUseCase) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	seated := game.PlayerByID(player.ID)
	if seated == nil {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrNotInThisGame, game.ID)
	}

	if game.IsOngoing() {
		gomoku.Forfeit(game, seated.Mark)
	}

	that.cleanupGame(ctx, game)

	return game, nil
}

// cleanupGame - removes a finished game and releases its players. Failures
// here are logged, not returned: the outcome is already decided.
func (that *GameUseCase) cleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "cleanupGame")

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "gameID", game.ID, "error", err)
	}

	// store released copies so the returned game still carries the final seats
	for _, player := range game.Players {
		released := &entity.Player{ID: player.ID}
		if err := that.playerRepo.CreateOrUpdate(ctx, released); err != nil {
			log.Error("failed to release player", "playerID", player.ID, "error", err)
		}
	}
}
