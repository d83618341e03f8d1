// Package presenter binds a store to views that come and go.
//
// A Middleware is installed in a store's dispatch chain. Views are attached,
// detached and cleared by dispatching the Control actions returned by Attach,
// Detach and Clear; any other action passes through untouched.
//
// When a view is first attached its Presenter runs once and registers selectors
// that map store state onto the view. The view is synchronized immediately and
// again after every store change while it stays attached. A detached view keeps
// its presenter and is synchronized again when re-attached. Clearing a view drops
// it entirely. The middleware subscribes to the store while at least one view is
// registered and unsubscribes when the last one is cleared.
//
// Broadcasts after store changes run on a Scheduler, one at a time in FIFO
// order, and always read the state that is current when they run. With the
// default scheduler they never run inside the dispatch that caused them; they
// wait in a scheduler.Loop until the host calls Middleware.Drain from its UI
// loop.
package presenter
