package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineUnavailable means no game could be constructed or the registry is not serving.
	ErrEngineUnavailable = errors.New("session: engine unavailable")

	// ErrCapacity means the session limit is reached. It matches ErrEngineUnavailable.
	ErrCapacity = fmt.Errorf("%w: session limit reached", ErrEngineUnavailable)

	// ErrSessionNotFound means the ID is unknown or expired; the client must start a game.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrUnknownAction means the action name is outside the accepted set.
	ErrUnknownAction = errors.New("session: unknown action")

	// ErrTerminalState means a mutating action was sent to a finished game.
	ErrTerminalState = errors.New("session: game is over")
)
