// Package gomoku implements the rules of "first to five": players alternate
// placing marks on an unbounded grid and the first unbroken line of five
// same-mark cells wins.
package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/firsttofive-backend/internal/apperror"
	"github.com/rocketscienceinc/firsttofive-backend/internal/entity"
)

// WinLength is the run length that ends the game.
const WinLength = 5

// The four line directions. Each is scanned both ways from the played cell,
// so these cover all eight half-directions.
var directions = [4]entity.Coordinate{
	{X: 1, Y: 0},  // horizontal
	{X: 0, Y: 1},  // vertical
	{X: 1, Y: 1},  // diagonal
	{X: 1, Y: -1}, // anti-diagonal
}

// MakeTurn - validates and applies a single move, then evaluates the position.
// On a rejected move the game state is untouched. A winning move finishes the
// game with the full run recorded as the winning line.
func MakeTurn(game *entity.Game, player string, cell entity.Coordinate) error {
	if game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(game, player, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	if err := game.Board.Place(cell, player); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(game, player, cell)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, player string, cell entity.Coordinate) error {
	if game.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if game.Board.IsOccupied(cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.Game, player string, cell entity.Coordinate) {
	line := WinningLine(game.Board, player, cell)
	if line == nil {
		game.Turn = ToggleMark(player)
		return
	}

	game.Finish(player, line)
}

// Forfeit - ends the game in the opponent's favor. This is the only way a
// game finishes without a line of five; there is no draw on an unbounded
// board.
func Forfeit(game *entity.Game, leaving string) {
	game.Finish(ToggleMark(leaving), nil)
}

func ToggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// WinningLine - the incremental win check. Only the just-played cell can
// complete a new line of five, so it is enough to count, for each direction,
// how far the player's run extends forward and backward from that cell. The
// scan touches at most WinLength-1 cells per half-direction, so the check is
// O(1) per move no matter how large the played region has grown.
//
// Returns the full contiguous run (ordered from its backward end) when its
// length reaches WinLength, or nil.
func WinningLine(board *entity.Board, player string, origin entity.Coordinate) []entity.Coordinate {
	for _, dir := range directions {
		back := runLength(board, player, origin, entity.Coordinate{X: -dir.X, Y: -dir.Y})
		forward := runLength(board, player, origin, dir)

		total := 1 + back + forward
		if total < WinLength {
			continue
		}

		line := make([]entity.Coordinate, 0, total)
		cell := entity.Coordinate{X: origin.X - back*dir.X, Y: origin.Y - back*dir.Y}
		for i := 0; i < total; i++ {
			line = append(line, cell)
			cell = entity.Coordinate{X: cell.X + dir.X, Y: cell.Y + dir.Y}
		}

		return line
	}

	return nil
}

// runLength - counts consecutive cells owned by player, starting next to
// origin and stepping by step, stopping at the first empty or opposing cell.
func runLength(board *entity.Board, player string, origin, step entity.Coordinate) int {
	count := 0
	cell := entity.Coordinate{X: origin.X + step.X, Y: origin.Y + step.Y}

	for {
		mark, ok := board.Mark(cell)
		if !ok || mark != player {
			return count
		}

		count++
		cell = entity.Coordinate{X: cell.X + step.X, Y: cell.Y + step.Y}
	}
}
