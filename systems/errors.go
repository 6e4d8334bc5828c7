package systems

import "errors"

var (
	// ErrInvalidConfig is returned for non-positive radii, negative masses,
	// inverted boundaries and similar construction mistakes.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyPopulation is returned by HealthPercentages on a world with no balls.
	ErrEmptyPopulation = errors.New("empty population")

	// ErrIndexOutOfRange is returned by World.Remove.
	ErrIndexOutOfRange = errors.New("ball index out of range")
)
