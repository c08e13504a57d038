// Package observer implements the observer pattern for run execution:
// register one or more Observer values with a Manager and receive
// Event notifications for run start/end and node
// start/success/failure/skipped transitions, without coupling to the
// executor's internals.
//
// # Basic usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//
// Notify dispatches to every registered observer in its own goroutine
// and recovers a panicking observer so it cannot take down a run or
// block its peers.
package observer
