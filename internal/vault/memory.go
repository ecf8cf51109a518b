package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"manuals-go/internal/manual"
)

// MemoryVault keeps snapshots in memory, which makes it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	snapshots map[string][]byte
	mu        sync.RWMutex
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{snapshots: make(map[string][]byte)}
}

// PutSnapshot stores the snapshot, replacing any previous one under key.
func (m *MemoryVault) PutSnapshot(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = data
	return nil
}

// GetSnapshot writes the snapshot stored under key to w.
func (m *MemoryVault) GetSnapshot(key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Len returns the number of stored snapshots.
func (m *MemoryVault) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ manual.Vault = (*MemoryVault)(nil)
