package params

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const maxBasisPoints = 10_000

var errNilBackend = errors.New("params: backend not configured")

// Backend is the raw keyed byte storage settings are persisted in.
type Backend interface {
	ParamGet(name string) ([]byte, bool, error)
	ParamSet(name string, value []byte) error
	ParamDelete(name string) error
}

// Store exposes typed accessors over the raw settings backend. Absent
// settings are reported via the boolean so callers can apply their own
// defaulting (or refuse to operate, for settings that must be present).
type Store struct {
	backend Backend
}

// NewStore constructs a settings store over the supplied backend.
func NewStore(backend Backend) *Store { return &Store{backend: backend} }

func (s *Store) getUint(name string) (uint64, bool, error) {
	if s == nil || s.backend == nil {
		return 0, false, errNilBackend
	}
	raw, ok, err := s.backend.ParamGet(name)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("params: malformed %s: %w", name, err)
	}
	return value, true, nil
}

func (s *Store) setBasisPoints(name string, value uint64) error {
	if s == nil || s.backend == nil {
		return errNilBackend
	}
	if value > maxBasisPoints {
		return fmt.Errorf("params: %s exceeds %d basis points", name, maxBasisPoints)
	}
	return s.backend.ParamSet(name, []byte(strconv.FormatUint(value, 10)))
}

// FeeBasisPoints returns the platform fee rate. The boolean is false when
// the setting has never been written.
func (s *Store) FeeBasisPoints() (uint64, bool, error) {
	return s.getUint(KeyFeeBasisPoints)
}

// SetFeeBasisPoints writes the platform fee rate.
func (s *Store) SetFeeBasisPoints(value uint64) error {
	return s.setBasisPoints(KeyFeeBasisPoints, value)
}

// MinPoolDepositBasisPoints returns the pool deposit floor. The boolean is
// false when the setting has never been written.
func (s *Store) MinPoolDepositBasisPoints() (uint64, bool, error) {
	return s.getUint(KeyMinPoolDepositBasisPoints)
}

// SetMinPoolDepositBasisPoints writes the pool deposit floor.
func (s *Store) SetMinPoolDepositBasisPoints(value uint64) error {
	return s.setBasisPoints(KeyMinPoolDepositBasisPoints, value)
}

// Unset removes a setting entirely.
func (s *Store) Unset(name string) error {
	if s == nil || s.backend == nil {
		return errNilBackend
	}
	return s.backend.ParamDelete(name)
}
