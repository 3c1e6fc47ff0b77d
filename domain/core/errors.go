package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrAlphaOutOfRange = fmt.Errorf("%w: alpha must be in (0, 1)", ErrInvalidConfig)
	ErrNegativeCondSet = fmt.Errorf("%w: max conditioning set size must be >= 0", ErrInvalidConfig)
	ErrStratumFloor    = fmt.Errorf("%w: min stratum sample size must be >= 1", ErrInvalidConfig)

	// Input errors
	ErrDegenerateInput = errors.New("degenerate observation matrix")
	ErrUnknownNode     = errors.New("unknown node")
	ErrDuplicateNode   = errors.New("duplicate node key")

	// Testing errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrSameNode         = errors.New("cannot test a node against itself")
	ErrConditioningSet  = errors.New("invalid conditioning set")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrHashMismatch     = errors.New("hash mismatch")
)

// Error constructors with context
func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

func NewUnknownNodeError(key NodeKey) error {
	return fmt.Errorf("%w: %s", ErrUnknownNode, key)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrDegenerateInput) ||
		errors.Is(err, ErrUnknownNode) ||
		errors.Is(err, ErrDuplicateNode)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrHashMismatch)
}
