package entity

import (
	"fmt"

	"github.com/playforge/tictactoe-online/internal/apperror"
)

// Room - authoritative state for one online match between exactly two players.
// Mutated only by the match coordinator; serialized as JSON for the room store.
type Room struct {
	ID           string            `json:"id"`
	Size         int               `json:"size"`
	Board        []string          `json:"board"`
	Turn         string            `json:"current_turn"`
	Active       bool              `json:"active"`
	Players      map[string]string `json:"players"`       // mark -> connection id
	Names        map[string]string `json:"player_names"`  // mark -> display name
	RematchVotes map[string]bool   `json:"rematch_votes"` // mark -> vote
}

func NewRoom(id string, size int) *Room {
	if size < MinBoardSize || size > MaxBoardSize {
		size = DefaultBoardSize
	}

	return &Room{
		ID:           id,
		Size:         size,
		Board:        make([]string, size*size),
		Turn:         PlayerX,
		Active:       true,
		Players:      make(map[string]string),
		Names:        make(map[string]string),
		RematchVotes: map[string]bool{PlayerX: false, PlayerO: false},
	}
}

// Clone - a deep copy of the room. Stores hand out clones so that a room
// held by one caller is never mutated through another's reference.
func (that *Room) Clone() *Room {
	clone := *that
	clone.Board = append([]string(nil), that.Board...)
	clone.Players = make(map[string]string, len(that.Players))
	clone.Names = make(map[string]string, len(that.Names))
	clone.RematchVotes = make(map[string]bool, len(that.RematchVotes))

	for mark, connID := range that.Players {
		clone.Players[mark] = connID
	}
	for mark, name := range that.Names {
		clone.Names[mark] = name
	}
	for mark, vote := range that.RematchVotes {
		clone.RematchVotes[mark] = vote
	}

	return &clone
}

// Seat - binds a connection and display name to a mark. The assignment is
// fixed for the room's lifetime; rematches never reshuffle it.
func (that *Room) Seat(mark, connID, name string) {
	that.Players[mark] = connID
	that.Names[mark] = name
}

// MarkOf - resolves which mark a connection plays as.
func (that *Room) MarkOf(connID string) (string, bool) {
	for _, mark := range [...]string{PlayerX, PlayerO} {
		if that.Players[mark] == connID {
			return mark, true
		}
	}

	return "", false
}

// ApplyMove - validates and commits a move for the given mark. On rejection
// the room is left untouched. A non-terminal move flips the turn; a terminal
// move deactivates the room and the result carries the winner or draw.
func (that *Room) ApplyMove(mark string, cell int) (Result, error) {
	if !that.Active {
		return Result{}, apperror.ErrRoomNotActive
	}

	if cell < 0 || cell >= len(that.Board) {
		return Result{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Turn != mark {
		return Result{}, apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return Result{}, apperror.ErrCellOccupied
	}

	that.Board[cell] = mark

	result := Evaluate(that.Board, Lines(that.Size))
	if result.InProgress() {
		that.Turn = Opponent(mark)
	} else {
		that.Active = false
	}

	return result, nil
}

// VoteRematch - records a rematch vote for the mark and reports whether
// both players have now voted.
func (that *Room) VoteRematch(mark string) bool {
	that.RematchVotes[mark] = true

	return that.RematchVotes[PlayerX] && that.RematchVotes[PlayerO]
}

// Reset - starts a fresh game in the same room: empty board, X to move,
// votes cleared. The mark assignment survives.
func (that *Room) Reset() {
	that.Board = make([]string, that.Size*that.Size)
	that.Turn = PlayerX
	that.Active = true
	that.RematchVotes = map[string]bool{PlayerX: false, PlayerO: false}
}
