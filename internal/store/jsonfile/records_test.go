package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/signup/internal/collector"
)

func TestRecordStore_MissingFile(t *testing.T) {
	s := NewRecordStore(filepath.Join(t.TempDir(), "records.json"))

	records, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "records.json")
	s := NewRecordStore(path)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.Append(ctx, collector.Record{ID: 101, Body: map[string]any{"name": "Ada"}, ReceivedAt: at}))
	require.NoError(t, s.Append(ctx, collector.Record{ID: 102, Body: map[string]any{"name": "Grace"}, ReceivedAt: at}))

	// a fresh store reads what the first one wrote
	records, err := NewRecordStore(path).List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 101, records[0].ID)
	assert.Equal(t, "Grace", records[1].Body["name"])
	assert.True(t, at.Equal(records[1].ReceivedAt))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestRecordStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	records, err := NewRecordStore(path).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	s := NewRecordStore(path)
	_, err := s.List(context.Background())
	require.Error(t, err)

	err = s.Append(context.Background(), collector.Record{ID: 1})
	require.Error(t, err, "append does not clobber a file it cannot read")
}
