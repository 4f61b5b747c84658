// apps/go-client/internal/game/errors.go
//
// Error classes the reducer distinguishes: identity (ErrNotFound),
// application (*RejectedError) and local validation sentinels. Anything else
// is a transport failure.

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the judge does not know the session id.
	ErrNotFound = errors.New("game not found")

	ErrHintLength  = errors.New("hint length mismatch")
	ErrHintSymbol  = errors.New("unknown hint symbol")
	ErrGuessLength = errors.New("guess length mismatch")
)

// RejectedError is an application-level refusal from the judge, such as a
// word that is not in its vocabulary. Detail is meant for the player.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%d): %s", e.Status, e.Detail)
}

// errorMessage is the text shown on the message line for err.
func errorMessage(err error) string {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Detail
	}
	return err.Error()
}
