package tpsa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a descriptor configuration that cannot be built.
	ErrInvalidConfig = errors.New("tpsa: invalid descriptor configuration")

	// ErrIncompatible indicates operands built on different descriptors or maps of mismatched size.
	ErrIncompatible = errors.New("tpsa: incompatible operands")

	// ErrDomain indicates a constant term outside the domain of a function.
	ErrDomain = errors.New("tpsa: argument out of domain")

	// ErrScratchExhausted indicates more scratch buffers in use than the pool holds.
	ErrScratchExhausted = errors.New("tpsa: scratch pool exhausted")

	// ErrScratchOrder indicates scratch buffers released out of LIFO order.
	ErrScratchOrder = errors.New("tpsa: scratch released out of order")
)

// ConfigError reports the offending descriptor field.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%d", ErrInvalidConfig, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// DomainError reports the function and the constant term it rejected.
type DomainError struct {
	Func  string
	Value complex128
}

func (e *DomainError) Error() string {
	if imag(e.Value) == 0 {
		return fmt.Sprintf("%v: %s(%g)", ErrDomain, e.Func, real(e.Value))
	}
	return fmt.Sprintf("%v: %s(%g)", ErrDomain, e.Func, e.Value)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// CompatError reports a precondition failure of a multi-operand operation.
type CompatError struct {
	Op     string
	Reason string
}

func (e *CompatError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrIncompatible, e.Op, e.Reason)
}

func (e *CompatError) Unwrap() error {
	return ErrIncompatible
}

func domainErr[T Num](fn string, v T) error {
	return &DomainError{Func: fn, Value: toComplex(v)}
}
