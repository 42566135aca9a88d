package geo

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for location resolution.
const (
	// ErrUnresolved means every tier of the resolution chain missed.
	// Callers treat it as "distance unavailable", never as fatal.
	ErrUnresolved = constError("location could not be resolved")

	// ErrNoMatch means a strategy or provider had nothing for the
	// query. The chain advances to the next tier.
	ErrNoMatch = constError("no match for location")

	// ErrProvider means an external geocoding call failed (transport
	// error, non-success status, or malformed payload). Treated like a
	// miss: the chain advances.
	ErrProvider = constError("geocoding provider request failed")
)
