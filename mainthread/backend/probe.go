package backend

// Handshaker is implemented by host bridge handles that expose a liveness
// check. Probing prefers an explicit handshake over mere presence.
type Handshaker interface {
	Ping() error
}

// Probe reports whether an installed host bridge handle is usable: nil
// handles are unavailable, handles with a handshake must answer it, and
// anything that panics during detection counts as a failed probe. Probe
// never panics and never blocks beyond the handle's own Ping.
func Probe(handle any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if handle == nil {
		return false
	}
	if h, isHandshaker := handle.(Handshaker); isHandshaker {
		return h.Ping() == nil
	}
	return true
}
