// Package backend defines the capability contract shared by all main-thread
// dispatch backends and the priority-ordered registry that selects the active
// one at runtime.
//
// A backend adapts one host application's native deferred/blocking call
// primitives to a uniform surface: availability probing, fire-and-forget
// dispatch, blocking dispatch with result, and main-thread identity. Host
// adapters live in subpackages (maya, nuke, houdini, blender, max, unreal,
// qt, direct) and are seeded into the registry lazily on first resolution.
package backend
