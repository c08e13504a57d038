package observer

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
)

// ============================================================================
// Default Observer Implementations
// ============================================================================

// NoOpObserver is a no-operation observer that ignores all events.
// This is useful as a default when no observer is configured.
type NoOpObserver struct{}

// OnEvent implements Observer interface (does nothing)
func (o *NoOpObserver) OnEvent(ctx context.Context, event Event) {
	// No operation
}

// ConsoleObserver is a simple observer that writes events through a
// Logger (by default a DefaultLogger, which prints to stdout/stderr).
// This is useful for development and debugging.
type ConsoleObserver struct {
	logger Logger
}

// NewConsoleObserver creates a new console observer with the default logger
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		logger: NewDefaultLogger(),
	}
}

// NewConsoleObserverWithLogger creates a new console observer with a custom logger
func NewConsoleObserverWithLogger(logger Logger) *ConsoleObserver {
	return &ConsoleObserver{
		logger: logger,
	}
}

// OnEvent implements Observer interface
func (o *ConsoleObserver) OnEvent(ctx context.Context, event Event) {
	fields := map[string]interface{}{
		"type":   event.Type,
		"status": event.Status,
		"run_id": event.RunID,
	}

	if event.NodeID != "" {
		fields["node_id"] = event.NodeID
		fields["node_type"] = event.NodeType
	}

	if event.ElapsedTime > 0 {
		fields["elapsed_time"] = event.ElapsedTime.String()
	}

	msg := fmt.Sprintf("[%s] %s", event.Type, event.Status)

	switch event.Type {
	case EventRunStart:
		o.logger.Info(msg, fields)
	case EventRunEnd:
		if event.Error != nil {
			fields["error"] = event.Error.Error()
			o.logger.Error(msg, fields)
		} else {
			o.logger.Info(msg, fields)
		}
	case EventNodeStart:
		o.logger.Debug(msg, fields)
	case EventNodeSuccess:
		o.logger.Debug(msg, fields)
	case EventNodeSkipped:
		o.logger.Debug(msg, fields)
	case EventNodeFailure:
		if event.Error != nil {
			fields["error"] = event.Error.Error()
		}
		o.logger.Warn(msg, fields)
	case EventNodeEnd:
		o.logger.Debug(msg, fields)
	default:
		o.logger.Info(msg, fields)
	}
}

// ============================================================================
// Default Logger Implementations
// ============================================================================

// NoOpLogger is a no-operation logger that ignores all log messages.
type NoOpLogger struct{}

// Debug implements Logger interface (does nothing)
func (l *NoOpLogger) Debug(msg string, fields map[string]interface{}) {}

// Info implements Logger interface (does nothing)
func (l *NoOpLogger) Info(msg string, fields map[string]interface{}) {}

// Warn implements Logger interface (does nothing)
func (l *NoOpLogger) Warn(msg string, fields map[string]interface{}) {}

// Error implements Logger interface (does nothing)
func (l *NoOpLogger) Error(msg string, fields map[string]interface{}) {}

// DefaultLogger is a simple logger that writes to stdout/stderr.
// This uses the standard library's log package.
type DefaultLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		infoLogger:  log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		errorLogger: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

// Debug implements Logger interface
func (l *DefaultLogger) Debug(msg string, fields map[string]interface{}) {
	l.infoLogger.Printf("[DEBUG] %s %v", msg, fields)
}

// Info implements Logger interface
func (l *DefaultLogger) Info(msg string, fields map[string]interface{}) {
	l.infoLogger.Printf("%s %v", msg, fields)
}

// Warn implements Logger interface
func (l *DefaultLogger) Warn(msg string, fields map[string]interface{}) {
	l.infoLogger.Printf("[WARN] %s %v", msg, fields)
}

// Error implements Logger interface
func (l *DefaultLogger) Error(msg string, fields map[string]interface{}) {
	l.errorLogger.Printf("%s %v", msg, fields)
}

// ============================================================================
// Observer Manager
// ============================================================================

// Manager fans a run's events out to every registered Observer. Each
// call is dispatched to its own goroutine so a slow or misbehaving
// observer (including one that panics) never delays or breaks the
// run it is watching. A panic recovered from an observer is reported
// through fallback, never through the run itself.
type Manager struct {
	mu        sync.Mutex
	observers []Observer
	fallback  *log.Logger
}

// NewManager creates a new observer manager with no observers.
func NewManager() *Manager {
	return &Manager{
		fallback: log.New(os.Stderr, "[observer] ", log.LstdFlags),
	}
}

// NewManagerWithObservers creates a new observer manager pre-seeded
// with observers. Entries that are nil or duplicates (by identity) of
// one already present are silently dropped, matching Register.
func NewManagerWithObservers(observers ...Observer) *Manager {
	m := NewManager()
	for _, o := range observers {
		m.Register(o)
	}
	return m
}

// Register adds observer to the manager. It rejects a nil observer
// and a second registration of an observer already present (compared
// by identity) — duplicate notifications for the same sink are never
// useful and usually indicate a caller-side bug.
func (m *Manager) Register(observer Observer) error {
	if observer == nil {
		return fmt.Errorf("%w: %w", ErrRegistrationFailed, ErrInvalidObserver)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(observer) >= 0 {
		return fmt.Errorf("%w: %w", ErrRegistrationFailed, ErrObserverAlreadyRegistered)
	}
	m.observers = append(m.observers, observer)
	return nil
}

// Unregister removes observer from the manager. It reports
// ErrObserverNotFound if observer was never registered.
func (m *Manager) Unregister(observer Observer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(observer)
	if i < 0 {
		return ErrObserverNotFound
	}
	m.observers = append(m.observers[:i], m.observers[i+1:]...)
	return nil
}

// indexOf returns observer's position, or -1. Identity comparison can
// panic for observer types whose underlying value is not comparable
// (one holding a slice or map field); such a type is treated as never
// matching an existing registration rather than rejected outright.
func (m *Manager) indexOf(observer Observer) (idx int) {
	idx = -1
	defer func() {
		if recover() != nil {
			idx = -1
		}
	}()
	for i, o := range m.observers {
		if o == observer {
			return i
		}
	}
	return idx
}

// Notify sends event to every registered observer concurrently. A
// recovered panic is logged to the manager's fallback logger, tagged
// with ErrObserverFailed when the observer panicked with an error
// value, or ErrObserverPanic otherwise, and never reaches the run the
// observer is watching.
func (m *Manager) Notify(ctx context.Context, event Event) {
	if m == nil {
		return
	}
	m.mu.Lock()
	snapshot := make([]Observer, len(m.observers))
	copy(snapshot, m.observers)
	m.mu.Unlock()

	for _, obs := range snapshot {
		obs := obs
		go func() {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				var err error
				if asErr, ok := r.(error); ok {
					err = fmt.Errorf("%w: %w", ErrObserverFailed, asErr)
				} else {
					err = fmt.Errorf("%w: %v", ErrObserverPanic, r)
				}
				m.fallback.Printf("recovered from observer panic during %s: %v", event.Type, err)
			}()
			obs.OnEvent(ctx, event)
		}()
	}
}

// HasObservers returns true if any observers are registered.
func (m *Manager) HasObservers() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.observers) > 0
}

// Count returns the number of registered observers.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.observers)
}
