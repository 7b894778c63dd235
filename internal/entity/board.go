package entity

import "math/rand"

const (
	PlayerX = "X"
	PlayerO = "O"

	// WinnerDraw is reported when the board is full with no winning line.
	WinnerDraw = "draw"

	EmptyCell = ""
)

// Board sizes supported by the client: 3x3, 4x4 and 5x5.
const (
	MinBoardSize     = 3
	MaxBoardSize     = 5
	DefaultBoardSize = 3
)

// Result - the outcome of evaluating a board position.
// Winner is PlayerX/PlayerO with the completed Line, WinnerDraw on a full
// board, or empty while the game is still in progress.
type Result struct {
	Winner string `json:"winner"`
	Line   []int  `json:"line,omitempty"`
}

func (that Result) IsWin() bool {
	return that.Winner == PlayerX || that.Winner == PlayerO
}

func (that Result) IsDraw() bool {
	return that.Winner == WinnerDraw
}

func (that Result) InProgress() bool {
	return that.Winner == EmptyCell
}

// Lines - the win lines for a size*size board: every row, every column,
// the main diagonal, the anti-diagonal. The order is fixed so Evaluate is
// deterministic for boards that complete more than one line at once.
func Lines(size int) [][]int {
	lines := make([][]int, 0, 2*size+2)

	for row := 0; row < size; row++ {
		line := make([]int, size)
		for col := 0; col < size; col++ {
			line[col] = row*size + col
		}
		lines = append(lines, line)
	}

	for col := 0; col < size; col++ {
		line := make([]int, size)
		for row := 0; row < size; row++ {
			line[row] = row*size + col
		}
		lines = append(lines, line)
	}

	diagonal := make([]int, size)
	antiDiagonal := make([]int, size)
	for i := 0; i < size; i++ {
		diagonal[i] = i*size + i
		antiDiagonal[i] = i*size + (size - 1 - i)
	}

	return append(lines, diagonal, antiDiagonal)
}

// Evaluate - scans the lines in order and returns the first completed one,
// a draw when the board is full, or an in-progress result. Pure function:
// safe to call on hypothetical boards.
func Evaluate(board []string, lines [][]int) Result {
	for _, line := range lines {
		first := board[line[0]]
		if first == EmptyCell {
			continue
		}

		complete := true
		for _, cell := range line[1:] {
			if board[cell] != first {
				complete = false
				break
			}
		}

		if complete {
			return Result{Winner: first, Line: line}
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return Result{}
		}
	}

	return Result{Winner: WinnerDraw}
}

// Opponent - the other mark.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// RandomMarks - assigns X and O uniformly at random between two players.
func RandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
