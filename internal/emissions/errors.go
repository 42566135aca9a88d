package emissions

// constError is a sentinel error type that can be declared as a constant.
type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrInvalidTable indicates an emission factor table that fails validation.
const ErrInvalidTable = constError("invalid emission factor table")

// ErrEmptyComparison indicates an insights request with no comparison rows.
const ErrEmptyComparison = constError("comparison table is empty")
