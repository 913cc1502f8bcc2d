package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
	"github.com/rocketscienceinc/firsttofive-backend/testing/suite"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a game with marks spread over both quadrants
	game := entity.NewGame("123", entity.PrivateType)
	game.Status = entity.StatusOngoing
	require.NoError(t, game.Board.Place(entity.Coordinate{X: -3, Y: 7}, entity.PlayerX))
	require.NoError(t, game.Board.Place(entity.Coordinate{X: 0, Y: 0}, entity.PlayerO))

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// Given: a stored in-progress game
		game := entity.NewGame("123", entity.PrivateType)
		game.Status = entity.StatusOngoing
		game.Turn = entity.PlayerO
		require.NoError(t, game.Board.Place(entity.Coordinate{X: -2, Y: -2}, entity.PlayerX))
		require.NoError(t, game.Board.Place(entity.Coordinate{X: 5, Y: 5}, entity.PlayerO))
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the board and turn state survive the round trip
		require.NoError(t, err)
		assert.Equal(t, game.ID, retrievedGame.ID)
		assert.Equal(t, entity.PlayerO, retrievedGame.Turn)
		assert.Equal(t, 2, retrievedGame.Board.Size())

		mark, ok := retrievedGame.Board.Mark(entity.Coordinate{X: -2, Y: -2})
		assert.True(t, ok)
		assert.Equal(t, entity.PlayerX, mark)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	// Given: a stored game
	game := entity.NewGame("123", entity.PublicType)
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
	require.NoError(t, gameRepo.AddWaitingPublic(ctx, game.ID))

	// When: DeleteByID is called
	err := gameRepo.DeleteByID(ctx, game.ID)

	// Then: the game is gone, including its matchmaking entry
	require.NoError(t, err)

	_, err = gameRepo.GetByID(ctx, game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = gameRepo.TakeWaitingPublic(ctx)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameRepository_WaitingPublic(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage)

	t.Run("Take returns a queued game once", func(t *testing.T) {
		// Given: a queued public game
		require.NoError(t, gameRepo.AddWaitingPublic(ctx, "game-1"))

		// When: taking from the queue twice
		id, err := gameRepo.TakeWaitingPublic(ctx)

		// Then: the first take pops the game, the second finds nothing
		require.NoError(t, err)
		assert.Equal(t, "game-1", id)

		_, err = gameRepo.TakeWaitingPublic(ctx)
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}
