package region

import "errors"

// Error implements errors unique to region lookups
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

var errUnmapped = errors.New("position is not in any region")

var errOutsideRegion = errors.New("position is outside of region")

var errNoSuchRegion = errors.New("no such region")

// IsUnmapped returns whether or not an error reports that a position
// is not contained in any configured region.
//
// Region coverage gaps are a configuration error: the position
// reported by the environment should always lie in some region.
func IsUnmapped(err error) bool {
	return errors.Is(err, errUnmapped)
}

// IsOutsideRegion returns whether or not an error reports that a
// position was used with a region that does not contain it
func IsOutsideRegion(err error) bool {
	return errors.Is(err, errOutsideRegion)
}
