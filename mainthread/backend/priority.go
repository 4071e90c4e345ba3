package backend

// Registry priorities. Host-specific tiers sit above PriorityHostThreshold
// so environment detection can distinguish "running inside a recognized
// host" from "some GUI toolkit happens to be importable". The fallback tier
// is always available and therefore last.
const (
	PriorityMaya    = 100
	PriorityNuke    = 96
	PriorityHoudini = 92
	PriorityBlender = 88
	PriorityMax     = 84
	PriorityUnreal  = 80

	// PriorityHostThreshold separates host-specific tiers from the generic
	// GUI-toolkit and fallback tiers.
	PriorityHostThreshold = 50

	PriorityQt       = 20
	PriorityFallback = 0
)
