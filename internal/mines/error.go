package mines

import (
	"errors"
	"fmt"
)

var ErrCorruptLayout = errors.New("corrupt mine layout")

// ValidationError reports malformed game creation parameters.
type ValidationError struct {
	Field  string
	Reason string
}

// [ValidationError] implements [error]
func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidCellError reports a coordinate outside the grid.
type InvalidCellError struct {
	Row, Col int
}

func (e InvalidCellError) Error() string {
	return "Invalid cell position"
}

// AlreadyRevealedError reports a second reveal of the same cell.
type AlreadyRevealedError struct {
	Row, Col int
}

func (e AlreadyRevealedError) Error() string {
	return "Cell already revealed"
}

// WrongStateError reports a reveal or claim on a game that is not active.
type WrongStateError struct {
	Status Status
}

func (e WrongStateError) Error() string {
	return fmt.Sprintf("Game is %s", e.Status)
}

// IsGameError reports whether err is one of the engine's player-facing
// errors, as opposed to a corrupt record.
func IsGameError(err error) bool {
	var (
		ve ValidationError
		ce InvalidCellError
		re AlreadyRevealedError
		se WrongStateError
	)
	return errors.As(err, &ve) || errors.As(err, &ce) ||
		errors.As(err, &re) || errors.As(err, &se)
}
