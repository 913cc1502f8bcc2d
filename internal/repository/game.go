package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// waitingPublicKey holds the IDs of public games waiting for an opponent.
const waitingPublicKey = "games:waiting_public"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error

	AddWaitingPublic(ctx context.Context, id string) error
	TakeWaitingPublic(ctx context.Context) (string, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := "game:" + game.ID
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	gameKey := "game:" + id

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	gameKey := "game:" + id

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	// a deleted game must not linger in the waiting queue
	if err := that.client.SRem(ctx, waitingPublicKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove game from waiting queue: %w", err)
	}

	return nil
}

func (that *dbGame) AddWaitingPublic(ctx context.Context, id string) error {
	if err := that.client.SAdd(ctx, waitingPublicKey, id).Err(); err != nil {
		return fmt.Errorf("failed to add game to waiting queue: %w", err)
	}

	return nil
}

// TakeWaitingPublic - pops one waiting public game ID. ErrGameNotFound when
// the queue is empty.
func (that *dbGame) TakeWaitingPublic(ctx context.Context) (string, error) {
	id, err := that.client.SPop(ctx, waitingPublicKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrGameNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to take waiting game: %w", err)
	}

	return id, nil
}
