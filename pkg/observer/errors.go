package observer

import "errors"

// Sentinel errors surfaced by Manager. ErrObserverPanic and
// ErrObserverFailed both reach a caller only through the fallback
// logger Notify uses when recovering a misbehaving observer, since
// Notify itself never returns an error (an observer is a passive
// listener; a bad one must not affect the run it is watching).
var (
	// ErrObserverPanic wraps a recovered panic whose value was not
	// itself an error (an arbitrary panic(...) argument).
	ErrObserverPanic = errors.New("observer panicked")
	// ErrObserverFailed wraps a recovered panic whose value was an
	// error, distinguishing a deliberate observer-side failure from
	// an unexpected crash.
	ErrObserverFailed  = errors.New("observer reported a failure")
	ErrInvalidObserver = errors.New("observer: nil observer")

	ErrObserverNotFound          = errors.New("observer: not registered")
	ErrObserverAlreadyRegistered = errors.New("observer: already registered")
	ErrRegistrationFailed        = errors.New("observer: registration failed")
)
