package model

import "errors"

var (
	// ErrInvalidMember is returned for members with missing or malformed fields.
	ErrInvalidMember = errors.New("model: invalid member")

	// ErrDegenerateMember is returned for members with no usable length.
	ErrDegenerateMember = errors.New("model: degenerate member")

	// ErrInvalidJoint is returned for joints that fail construction checks.
	ErrInvalidJoint = errors.New("model: invalid joint")

	// ErrInvalidElement is returned for plates, bolts, or welds with missing
	// required fields.
	ErrInvalidElement = errors.New("model: invalid element")
)
