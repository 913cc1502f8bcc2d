package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places a mark on an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: player X takes a cell
		err := board.Place(Coordinate{X: 3, Y: -7}, PlayerX)

		// Then: the cell is occupied by player X
		require.NoError(t, err)
		assert.True(t, board.IsOccupied(Coordinate{X: 3, Y: -7}))

		mark, ok := board.Mark(Coordinate{X: 3, Y: -7})
		assert.True(t, ok)
		assert.Equal(t, PlayerX, mark)
		assert.Equal(t, 1, board.Size())
	})

	t.Run("Error when the cell is already occupied", func(t *testing.T) {
		// Given: a board where player X holds a cell
		board := NewBoard()
		require.NoError(t, board.Place(Coordinate{X: 0, Y: 0}, PlayerX))

		// When: any later placement targets the same cell
		err := board.Place(Coordinate{X: 0, Y: 0}, PlayerO)

		// Then: an ErrCellOccupied error must be returned and the owner is kept
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		mark, _ := board.Mark(Coordinate{X: 0, Y: 0})
		assert.Equal(t, PlayerX, mark)
		assert.Equal(t, 1, board.Size())
	})

	t.Run("Empty cell is absence, not an error", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: querying a cell nobody played
		mark, ok := board.Mark(Coordinate{X: 100, Y: -100})

		// Then: the cell is simply absent
		assert.False(t, ok)
		assert.Equal(t, EmptyCell, mark)
		assert.False(t, board.IsOccupied(Coordinate{X: 100, Y: -100}))
	})
}

func TestBoard_Bounds(t *testing.T) {
	t.Run("Empty board has no bounds", func(t *testing.T) {
		board := NewBoard()

		_, _, ok := board.Bounds()

		assert.False(t, ok)
	})

	t.Run("Bounds follow the played extent", func(t *testing.T) {
		// The first mark becomes the extent regardless of where it lands;
		// later marks stretch it in every direction they exceed.
		for _, origin := range []Coordinate{{X: 0, Y: 0}, {X: -10, Y: 7}, {X: 9, Y: -4}} {
			board := NewBoard()

			require.NoError(t, board.Place(origin, PlayerX))
			minCorner, maxCorner, ok := board.Bounds()
			require.True(t, ok)
			assert.Equal(t, origin, minCorner)
			assert.Equal(t, origin, maxCorner)

			// one to the right
			require.NoError(t, board.Place(Coordinate{X: origin.X + 1, Y: origin.Y}, PlayerO))
			// three to the left of the original left side
			require.NoError(t, board.Place(Coordinate{X: origin.X - 3, Y: origin.Y}, PlayerX))
			// four above
			require.NoError(t, board.Place(Coordinate{X: origin.X, Y: origin.Y - 4}, PlayerO))
			// two below
			require.NoError(t, board.Place(Coordinate{X: origin.X + 1, Y: origin.Y + 2}, PlayerX))

			minCorner, maxCorner, ok = board.Bounds()
			require.True(t, ok)
			assert.Equal(t, Coordinate{X: origin.X - 3, Y: origin.Y - 4}, minCorner)
			assert.Equal(t, Coordinate{X: origin.X + 1, Y: origin.Y + 2}, maxCorner)
		}
	})
}

func TestBoard_String(t *testing.T) {
	t.Run("Empty board", func(t *testing.T) {
		board := NewBoard()

		assert.Equal(t, "⌜⌝\n⌞⌟", board.String())
	})

	t.Run("Full area", func(t *testing.T) {
		board := NewBoard()
		require.NoError(t, board.Place(Coordinate{X: 0, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 1, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 0, Y: 1}, PlayerX))
		require.NoError(t, board.Place(Coordinate{X: 1, Y: 1}, PlayerX))

		assert.Equal(t, "⌜⎺⎺⌝\n|oo|\n|xx|\n⌞⎽⎽⌟", board.String())
	})

	t.Run("Partial area", func(t *testing.T) {
		board := NewBoard()
		require.NoError(t, board.Place(Coordinate{X: 0, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 2, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 1, Y: 1}, PlayerX))

		assert.Equal(t, "⌜⎺⎺⎺⌝\n|o o|\n| x |\n⌞⎽⎽⎽⌟", board.String())
	})
}

func TestBoard_JSON(t *testing.T) {
	t.Run("Round trip keeps cells and bounds", func(t *testing.T) {
		// Given: a board spread over both quadrants
		board := NewBoard()
		require.NoError(t, board.Place(Coordinate{X: -2, Y: -2}, PlayerX))
		require.NoError(t, board.Place(Coordinate{X: 0, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 3, Y: 1}, PlayerX))

		// When: the board goes through its wire form
		data, err := json.Marshal(board)
		require.NoError(t, err)

		restored := NewBoard()
		require.NoError(t, json.Unmarshal(data, restored))

		// Then: every cell and the extent survive
		assert.Equal(t, board.Size(), restored.Size())
		for _, cell := range []Coordinate{{X: -2, Y: -2}, {X: 0, Y: 0}, {X: 3, Y: 1}} {
			wantMark, _ := board.Mark(cell)
			gotMark, ok := restored.Mark(cell)
			assert.True(t, ok)
			assert.Equal(t, wantMark, gotMark)
		}

		wantMin, wantMax, _ := board.Bounds()
		gotMin, gotMax, ok := restored.Bounds()
		require.True(t, ok)
		assert.Equal(t, wantMin, gotMin)
		assert.Equal(t, wantMax, gotMax)
	})

	t.Run("Wire form is deterministic", func(t *testing.T) {
		board := NewBoard()
		require.NoError(t, board.Place(Coordinate{X: 1, Y: 0}, PlayerX))
		require.NoError(t, board.Place(Coordinate{X: -1, Y: 0}, PlayerO))
		require.NoError(t, board.Place(Coordinate{X: 0, Y: -1}, PlayerX))

		first, err := json.Marshal(board)
		require.NoError(t, err)

		second, err := json.Marshal(board)
		require.NoError(t, err)

		assert.JSONEq(t, string(first), string(second))
		assert.Equal(t, first, second)
	})
}
