package apperror

import "errors"

var (
	ErrRoomNotActive = errors.New("room is not active")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
)
