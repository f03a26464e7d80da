package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeargus/argus/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleRequest() core.ReviewRequest {
	return core.ReviewRequest{
		Diff:     "--- a/main.go\n+++ b/main.go\n@@ -1 +1 @@\n-old\n+new\n",
		Context:  "",
		Criteria: []string{"security", "code_quality"},
	}
}

func TestKeyDeterminism(t *testing.T) {
	req := sampleRequest()

	k1 := Key(req, "gemini", "gemini-pro", "medium")
	k2 := Key(req, "gemini", "gemini-pro", "medium")
	assert.Equal(t, k1, k2, "identical inputs must produce identical keys")
	assert.Len(t, k1, 64, "key must be a sha256 hex digest")
}

func TestKeyCriteriaOrderNormalized(t *testing.T) {
	req := sampleRequest()
	reordered := req
	reordered.Criteria = []string{"code_quality", "security"}

	assert.Equal(t,
		Key(req, "gemini", "gemini-pro", "medium"),
		Key(reordered, "gemini", "gemini-pro", "medium"),
		"criteria order must not affect the key")
}

func TestKeySensitivity(t *testing.T) {
	base := sampleRequest()
	baseKey := Key(base, "gemini", "gemini-pro", "medium")

	tests := []struct {
		name string
		key  string
	}{
		{
			name: "one-character diff change",
			key: func() string {
				r := base
				r.Diff = base.Diff + " "
				return Key(r, "gemini", "gemini-pro", "medium")
			}(),
		},
		{
			name: "different context",
			key: func() string {
				r := base
				r.Context = "original file content"
				return Key(r, "gemini", "gemini-pro", "medium")
			}(),
		},
		{
			name: "different criteria",
			key: func() string {
				r := base
				r.Criteria = []string{"security"}
				return Key(r, "gemini", "gemini-pro", "medium")
			}(),
		},
		{name: "different provider", key: Key(base, "openai", "gemini-pro", "medium")},
		{name: "different model", key: Key(base, "gemini", "gemini-1.5-pro", "medium")},
		{name: "different strictness", key: Key(base, "gemini", "gemini-pro", "strict")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, baseKey, tt.key)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	key := Key(sampleRequest(), "gemini", "gemini-pro", "medium")

	_, ok := store.Get(key)
	assert.False(t, ok, "empty store must miss")

	result := core.NewSuccessResult("gemini", "gemini-pro", "Looks good overall.")
	store.Put(key, result)

	got, ok := store.Get(key)
	require.True(t, ok, "stored entry must hit")
	assert.Equal(t, result, got)

	// The entry file is named by the key's hex digest.
	_, err = os.Stat(filepath.Join(store.Dir(), key+".json"))
	assert.NoError(t, err)
}

func TestStoreCorruptedEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, testLogger())
	require.NoError(t, err)

	key := Key(sampleRequest(), "gemini", "gemini-pro", "medium")
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".json"), []byte("{not json"), 0600))

	_, ok := store.Get(key)
	assert.False(t, ok, "corrupted entry must be treated as a miss")
}

func TestStoreStatsAndClear(t *testing.T) {
	store, err := NewStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	store.Put(Key(sampleRequest(), "gemini", "gemini-pro", "medium"),
		core.NewSuccessResult("gemini", "gemini-pro", "first"))
	store.Put(Key(sampleRequest(), "openai", "gpt-4o", "medium"),
		core.NewSuccessResult("openai", "gpt-4o", "second"))

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Greater(t, stats.TotalBytes, int64(0))

	require.NoError(t, store.Clear())

	stats, err = store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestNewStoreUncreatableDirFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewStore(filepath.Join(blocker, "cache"), testLogger())
	assert.Error(t, err, "a file in the way of the cache directory must fail startup")
}
