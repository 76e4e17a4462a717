package state

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"orgledger/native/authority"
	"orgledger/native/bounty"
	"orgledger/storage"
)

const (
	bountyPrefix = "bounty/record/"
	poolPrefix   = "bounty/pool/"
	authPrefix   = "authority/"
	paramPrefix  = "params/"
)

func bountyKey(id string) []byte {
	return []byte(bountyPrefix + id)
}

func poolIndexPrefix(bountyID string) []byte {
	return []byte(poolPrefix + bountyID + "/")
}

func poolKey(bountyID, account string) []byte {
	return append(poolIndexPrefix(bountyID), account...)
}

func authKey(org, operation string) []byte {
	return []byte(authPrefix + org + "/" + operation)
}

func paramKey(name string) []byte {
	return []byte(paramPrefix + name)
}

// Manager persists the engine records in a key/value database and serves as
// the single state backend shared by the bounty, authority and settings
// modules. Writes are serialised; reads return decoded copies so callers can
// stage mutations without touching the stored bytes.
type Manager struct {
	mu sync.RWMutex
	db storage.Database
}

// NewManager wraps a database in a state manager.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	raw, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// BountyPut stores a bounty record under its identifier.
func (m *Manager) BountyPut(record *bounty.Bounty) error {
	if record == nil {
		return fmt.Errorf("state: nil bounty record")
	}
	raw, err := encodeBounty(record)
	if err != nil {
		return fmt.Errorf("state: encode bounty %s: %w", record.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Put(bountyKey(record.ID), raw)
}

// BountyGet loads a bounty record; the boolean is false when absent.
func (m *Manager) BountyGet(id string) (*bounty.Bounty, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok, err := m.get(bountyKey(id))
	if err != nil || !ok {
		return nil, false, err
	}
	record, err := decodeBounty(raw)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode bounty %s: %w", id, err)
	}
	return record, true, nil
}

// BountyDelete removes a bounty record along with any pool deposit entries
// still indexed under it.
func (m *Manager) BountyDelete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys [][]byte
	err := m.db.IteratePrefix(poolIndexPrefix(id), func(key, _ []byte) bool {
		keys = append(keys, append([]byte(nil), key...))
		return true
	})
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := m.db.Delete(key); err != nil {
			return err
		}
	}
	return m.db.Delete(bountyKey(id))
}

// PoolDepositGet loads one account's pool entry for a bounty.
func (m *Manager) PoolDepositGet(bountyID, account string) (*bounty.PoolDeposit, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok, err := m.get(poolKey(bountyID, account))
	if err != nil || !ok {
		return nil, false, err
	}
	entry, err := decodePoolDeposit(raw)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode pool deposit %s/%s: %w", bountyID, account, err)
	}
	return entry, true, nil
}

// PoolDepositPut stores one account's pool entry for a bounty.
func (m *Manager) PoolDepositPut(bountyID string, entry *bounty.PoolDeposit) error {
	if entry == nil {
		return fmt.Errorf("state: nil pool deposit")
	}
	raw, err := encodePoolDeposit(entry)
	if err != nil {
		return fmt.Errorf("state: encode pool deposit %s/%s: %w", bountyID, entry.Account, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Put(poolKey(bountyID, entry.Account), raw)
}

// PoolDepositDelete removes one account's pool entry for a bounty.
func (m *Manager) PoolDepositDelete(bountyID, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Delete(poolKey(bountyID, account))
}

// PoolDepositList returns every pool entry recorded for a bounty, ordered by
// account.
func (m *Manager) PoolDepositList(bountyID string) ([]*bounty.PoolDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := poolIndexPrefix(bountyID)
	var entries []*bounty.PoolDeposit
	var decodeErr error
	err := m.db.IteratePrefix(prefix, func(key, value []byte) bool {
		entry, err := decodePoolDeposit(value)
		if err != nil {
			decodeErr = fmt.Errorf("state: decode pool deposit %s: %w", bytes.TrimPrefix(key, prefix), err)
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return entries, nil
}

// AuthRecordGet loads an organization's allow-list for an operation.
func (m *Manager) AuthRecordGet(org, operation string) (*authority.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok, err := m.get(authKey(org, operation))
	if err != nil || !ok {
		return nil, false, err
	}
	record, err := decodeAuthRecord(raw)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode authority record %s/%s: %w", org, operation, err)
	}
	return record, true, nil
}

// AuthRecordPut stores an organization's allow-list for an operation.
func (m *Manager) AuthRecordPut(org string, record *authority.Record) error {
	if record == nil {
		return fmt.Errorf("state: nil authority record")
	}
	raw, err := encodeAuthRecord(record)
	if err != nil {
		return fmt.Errorf("state: encode authority record %s/%s: %w", org, record.Operation, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Put(authKey(org, record.Operation), raw)
}

// AuthRecordDelete removes an organization's allow-list for an operation.
func (m *Manager) AuthRecordDelete(org, operation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Delete(authKey(org, operation))
}

// ParamGet loads a raw setting value.
func (m *Manager) ParamGet(name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(paramKey(name))
}

// ParamSet stores a raw setting value.
func (m *Manager) ParamSet(name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Put(paramKey(name), value)
}

// ParamDelete removes a setting.
func (m *Manager) ParamDelete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Delete(paramKey(name))
}
