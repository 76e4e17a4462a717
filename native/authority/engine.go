package authority

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNilState = errors.New("authority engine: state not configured")
	// ErrNotOrg is returned when a principal other than the organization
	// attempts to edit its allow-lists.
	ErrNotOrg = errors.New("authority engine: only the organization may edit its allow-lists")
)

// Record is one per-operation allow-list scoped to an organization.
type Record struct {
	Operation  string
	Principals []string
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{Operation: r.Operation, Principals: append([]string(nil), r.Principals...)}
}

type engineState interface {
	AuthRecordGet(org, operation string) (*Record, bool, error)
	AuthRecordPut(org string, record *Record) error
	AuthRecordDelete(org, operation string) error
}

// Engine maintains per-organization, per-operation allow-lists of principals
// permitted to act on the organization's behalf.
type Engine struct {
	state engineState
}

// NewEngine constructs an authority engine without a state backend.
func NewEngine() *Engine { return &Engine{} }

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

func (e *Engine) requireOrg(org, authorized string) error {
	if strings.TrimSpace(org) == "" {
		return fmt.Errorf("authority: organization required")
	}
	if authorized != org {
		return fmt.Errorf("%w: %s is not %s", ErrNotOrg, authorized, org)
	}
	return nil
}

// Grant adds a principal to the allow-list for an operation, creating the
// record when absent. Granting an already-listed principal is rejected.
func (e *Engine) Grant(authorized, org, operation, principal string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOrg(org, authorized); err != nil {
		return err
	}
	if strings.TrimSpace(operation) == "" || strings.TrimSpace(principal) == "" {
		return fmt.Errorf("authority: operation and principal required")
	}
	record, ok, err := e.state.AuthRecordGet(org, operation)
	if err != nil {
		return err
	}
	if !ok {
		record = &Record{Operation: operation}
	}
	for _, existing := range record.Principals {
		if existing == principal {
			return fmt.Errorf("authority: %s already authorized for %s", principal, operation)
		}
	}
	record.Principals = append(record.Principals, principal)
	return e.state.AuthRecordPut(org, record)
}

// Revoke removes a principal from the allow-list; the record is erased once
// its last principal is removed. Revoking an unknown principal is a no-op.
func (e *Engine) Revoke(authorized, org, operation, principal string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireOrg(org, authorized); err != nil {
		return err
	}
	record, ok, err := e.state.AuthRecordGet(org, operation)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	kept := record.Principals[:0]
	for _, existing := range record.Principals {
		if existing != principal {
			kept = append(kept, existing)
		}
	}
	record.Principals = kept
	if len(record.Principals) == 0 {
		return e.state.AuthRecordDelete(org, operation)
	}
	return e.state.AuthRecordPut(org, record)
}

// HasActionAuthority reports whether the principal may perform the operation
// on behalf of the organization. The organization itself is always permitted.
func (e *Engine) HasActionAuthority(org, operation, principal string) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	if strings.TrimSpace(principal) == "" {
		return false, nil
	}
	if principal == org {
		return true, nil
	}
	record, ok, err := e.state.AuthRecordGet(org, operation)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	for _, existing := range record.Principals {
		if existing == principal {
			return true, nil
		}
	}
	return false, nil
}
