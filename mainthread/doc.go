// Package mainthread marshals work onto the host application's main
// thread. A Dispatcher resolves the active backend through a
// priority-ordered registry of host adapters and exposes fire-and-forget,
// blocking, and future-based dispatch on top of it. Calls issued from the
// main thread itself run inline, so host-API helpers can be called from
// any goroutine without knowing where they are.
package mainthread
