package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRaw_SkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	data := `[
		{"subject": "Good one", "body": "text", "brand": "Acme"},
		{"subject": {"nested": "object"}, "body": "bad"},
		{"subject": 42, "body": true, "category": null},
		{"subject": "Another", "body": "more text"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	raws, malformed, err := LoadRaw(path)
	require.NoError(t, err)

	assert.Equal(t, 1, malformed, "object-valued field should mark the record malformed")
	require.Len(t, raws, 3)
	assert.Equal(t, "Good one", string(raws[0].Subject))
	// Scalar coercion: numbers and bools become text, null becomes empty.
	assert.Equal(t, "42", string(raws[1].Subject))
	assert.Equal(t, "true", string(raws[1].Body))
	assert.Equal(t, "", string(raws[1].Category))
}

func TestLoadRaw_MissingFile(t *testing.T) {
	_, _, err := LoadRaw(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	n := NewNormalizer(nil)
	records, _ := n.Normalize([]RawRecord{
		{Subject: "🚀 Launch today", Body: "Hurry, limited spots.", Brand: "Acme", Category: "product_launch", Source: "curated"},
		{Subject: "Hello", Body: "World"},
	})

	require.NoError(t, SaveCheckpoint(path, records))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded, "checkpoint must reload exactly")
}
