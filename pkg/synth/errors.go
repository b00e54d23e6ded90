package synth

import "errors"

var (
	// ErrUnknownMember is returned when a joint references a member id that
	// is not in the run.
	ErrUnknownMember = errors.New("synth: unknown member")

	// ErrNoProvider is returned when Synthesize is called without a sizing
	// provider.
	ErrNoProvider = errors.New("synth: nil sizing provider")
)
