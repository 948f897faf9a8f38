// Package a11y connects native windows to their accessibility adapters.
//
// Every window gets a platform adapter, kept in the non-send Adapters
// registry, and a RequestQueue, kept in Handlers. The windowing layer pushes
// action requests into the queue from its own thread; once per frame the
// drain system moves them onto the engine's ActionRequestEvent stream.
//
// Three systems run in engine.PostUpdate under SystemSet:
//
//	windowClosed   removes both registry entries of closed windows
//	pollReceivers  drains every queue into the event stream
//	updateNodes    reconciles adapters with the node world (gated)
//
// windowClosed runs before the other two so a window that closed this frame
// neither emits requests nor gets its tree updated.
package a11y
