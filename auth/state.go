package auth

// State is a step of the access token acquisition.
type State int

// Acquisition states
const (
	StateUninitialized State = iota
	StateCacheCheck
	StateCacheHit
	StateCacheMiss
	StateExchangeInFlight
	StateExchangeSucceeded
	StateExchangeFailed
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCacheCheck:
		return "cache_check"
	case StateCacheHit:
		return "cache_hit"
	case StateCacheMiss:
		return "cache_miss"
	case StateExchangeInFlight:
		return "exchange_in_flight"
	case StateExchangeSucceeded:
		return "exchange_succeeded"
	case StateExchangeFailed:
		return "exchange_failed"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
