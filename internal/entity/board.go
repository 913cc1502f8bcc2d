package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
)

// Coordinate identifies a cell on the unbounded grid. Both components are
// signed and may grow in any direction as far as the game spreads.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is an occupied coordinate together with the mark that owns it.
type Cell struct {
	Coordinate
	Mark string `json:"mark"`
}

// Board is a sparse, unbounded grid of placed marks. A coordinate that has no
// entry is empty; there is no empty-mark value. The board also tracks the
// bounding box of everything played so far, so the played extent can be
// rendered without scanning the whole map.
//
// Lookups and placement are O(1) no matter how far the game has spread, which
// is the whole point: a fixed-size array cannot represent this game.
type Board struct {
	cells map[Coordinate]string

	// bounding box of placed cells; right and bottom are exclusive
	left, top, right, bottom int
}

func NewBoard() *Board {
	return &Board{
		cells: make(map[Coordinate]string),
	}
}

// IsOccupied - reports whether the cell already holds a mark.
func (that *Board) IsOccupied(cell Coordinate) bool {
	_, ok := that.cells[cell]
	return ok
}

// Mark - returns the mark owning the cell, if any. An empty cell is not an
// error, the second return is simply false.
func (that *Board) Mark(cell Coordinate) (string, bool) {
	mark, ok := that.cells[cell]
	return mark, ok
}

// Place - puts a mark on an empty cell. The board never shrinks; there is no
// removal operation.
func (that *Board) Place(cell Coordinate, mark string) error {
	if that.cells == nil {
		that.cells = make(map[Coordinate]string)
	}

	if _, ok := that.cells[cell]; ok {
		return fmt.Errorf("%w: %d,%d", apperror.ErrCellOccupied, cell.X, cell.Y)
	}

	that.grow(cell)
	that.cells[cell] = mark

	return nil
}

// Size - the number of occupied cells.
func (that *Board) Size() int {
	return len(that.cells)
}

// Bounds - the inclusive corners of the played extent. ok is false while the
// board is still empty.
func (that *Board) Bounds() (minCorner, maxCorner Coordinate, ok bool) {
	if len(that.cells) == 0 {
		return Coordinate{}, Coordinate{}, false
	}

	return Coordinate{X: that.left, Y: that.top}, Coordinate{X: that.right - 1, Y: that.bottom - 1}, true
}

// grow - widens the bounding box so it covers the new cell. The first mark
// becomes the origin of the box regardless of its absolute coordinates.
func (that *Board) grow(cell Coordinate) {
	if len(that.cells) == 0 {
		that.left = cell.X
		that.right = cell.X + 1
		that.top = cell.Y
		that.bottom = cell.Y + 1
		return
	}

	if cell.X < that.left {
		that.left = cell.X
	} else if cell.X >= that.right {
		that.right = cell.X + 1
	}

	if cell.Y < that.top {
		that.top = cell.Y
	} else if cell.Y >= that.bottom {
		that.bottom = cell.Y + 1
	}
}

// String - renders the played extent of the board. Useful for logs and any
// terminal frontend; the engine itself never prints.
func (that *Board) String() string {
	var sb strings.Builder

	sb.WriteString("⌜")
	for x := that.left; x < that.right; x++ {
		sb.WriteString("⎺")
	}
	sb.WriteString("⌝\n")

	for y := that.top; y < that.bottom; y++ {
		sb.WriteString("|")
		for x := that.left; x < that.right; x++ {
			switch that.cells[Coordinate{X: x, Y: y}] {
			case PlayerX:
				sb.WriteString("x")
			case PlayerO:
				sb.WriteString("o")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString("|\n")
	}

	sb.WriteString("⌞")
	for x := that.left; x < that.right; x++ {
		sb.WriteString("⎽")
	}
	sb.WriteString("⌟")

	return sb.String()
}

// boardJSON is the wire form of a Board: just the occupied cells. The bounding
// box is rebuilt on load.
type boardJSON struct {
	Cells []Cell `json:"cells"`
}

func (that *Board) MarshalJSON() ([]byte, error) {
	cells := make([]Cell, 0, len(that.cells))
	for coord, mark := range that.cells {
		cells = append(cells, Cell{Coordinate: coord, Mark: mark})
	}

	// map iteration order is random; keep the wire form deterministic
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})

	return json.Marshal(boardJSON{Cells: cells})
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var wire boardJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	that.cells = make(map[Coordinate]string, len(wire.Cells))
	that.left, that.top, that.right, that.bottom = 0, 0, 0, 0

	for _, cell := range wire.Cells {
		if err := that.Place(cell.Coordinate, cell.Mark); err != nil {
			return fmt.Errorf("failed to restore board: %w", err)
		}
	}

	return nil
}
