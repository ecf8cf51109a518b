package manual

import "io"

// Vault stores serialized schema snapshots under slash-separated keys.
// Writing an existing key overwrites it.
type Vault interface {
	// PutSnapshot stores size bytes read from r under key.
	PutSnapshot(key string, r io.Reader, size int64) error

	// GetSnapshot writes the snapshot stored under key to w.
	GetSnapshot(key string, w io.Writer) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
