package vault

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryVault_PutAndGetSnapshot(t *testing.T) {
	vault := NewMemoryVault()

	tests := []struct {
		name    string
		key     string
		content string
	}{
		{name: "store and retrieve", key: "schema.json", content: `{"root":null}`},
		{name: "store empty snapshot", key: "empty.json", content: ""},
		{name: "store large snapshot", key: "large.json", content: strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, vault.PutSnapshot(tt.key, strings.NewReader(tt.content), int64(len(tt.content))))

			var buf bytes.Buffer
			require.NoError(t, vault.GetSnapshot(tt.key, &buf))
			assert.Equal(t, tt.content, buf.String())
		})
	}

	assert.Equal(t, len(tests), vault.Len())
}

func TestMemoryVault_SizeMismatch(t *testing.T) {
	vault := NewMemoryVault()
	assert.Error(t, vault.PutSnapshot("k", strings.NewReader("abc"), 10))
	assert.Zero(t, vault.Len())
}

func TestMemoryVault_NotFound(t *testing.T) {
	vault := NewMemoryVault()
	var buf bytes.Buffer
	assert.ErrorIs(t, vault.GetSnapshot("missing", &buf), ErrSnapshotNotFound)
}

func TestMemoryVault_Overwrites(t *testing.T) {
	vault := NewMemoryVault()
	for _, s := range []string{"one", "two"} {
		require.NoError(t, vault.PutSnapshot("k", strings.NewReader(s), int64(len(s))))
	}

	var buf bytes.Buffer
	require.NoError(t, vault.GetSnapshot("k", &buf))
	assert.Equal(t, "two", buf.String())
}

func TestMemoryVault_Concurrent(t *testing.T) {
	vault := NewMemoryVault()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = vault.PutSnapshot("k", strings.NewReader("data"), 4)
			var buf bytes.Buffer
			_ = vault.GetSnapshot("k", &buf)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, vault.Len())
}
