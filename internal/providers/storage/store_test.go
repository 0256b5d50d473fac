package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Init())
	return s
}

func TestFileStoreReadWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "State/instances/a.json", []byte(`{"a":1}`)))
	assert.True(t, s.Exists(ctx, "State/instances/a.json"))

	data, err := s.Read(ctx, "State/instances/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, s.Write(ctx, "State/instances/a.json", []byte(`{"a":2}`)))
	data, err = s.Read(ctx, "State/instances/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))
}

func TestFileStoreCreatesParents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "Designs/abc/frames/abc_frame_01.png", []byte{1, 2, 3}))
	info, err := os.Stat(filepath.Join(s.Root(), "Designs", "abc", "frames"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Read(ctx, "State/missing.json")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsRecoverable(err))
	assert.False(t, s.Exists(ctx, "State/missing.json"))
	assert.NoError(t, s.Delete(ctx, "State/missing.json"))
}

func TestFileStoreRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Read(ctx, "../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, s.Write(ctx, "/abs.json", nil))
	assert.Error(t, s.RemoveAll(ctx, "."))
}

func TestFileStoreListSkipsTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "State/instances/b.json", []byte("{}")))
	require.NoError(t, s.Write(ctx, "State/instances/a.json", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "State", "instances", ".a.json.123.tmp"), []byte("x"), 0o644))

	names, err := s.List(ctx, "State/instances")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)

	names, err = s.List(ctx, "Nope")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStoreRemoveAllAndUsage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "Designs/abc/frames/abc_frame_01.png", make([]byte, 100)))
	require.NoError(t, s.Write(ctx, "Designs/abc/frames/abc_frame_02.png", make([]byte, 50)))
	require.NoError(t, s.Write(ctx, "Designs/abc/abc_manifest.json", make([]byte, 10)))

	used, err := s.Usage(ctx, "Designs")
	require.NoError(t, err)
	assert.Equal(t, int64(160), used)

	require.NoError(t, s.RemoveAll(ctx, "Designs/abc"))
	assert.False(t, s.Exists(ctx, "Designs/abc/abc_manifest.json"))

	used, err = s.Usage(ctx, "Designs/abc")
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestFileStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	// Two stores on one directory stand in for two processes.
	a, err := NewFileStore(root)
	require.NoError(t, err)
	b, err := NewFileStore(root)
	require.NoError(t, err)

	payloads := [][]byte{[]byte(`{"writer":"a"}`), []byte(`{"writer":"b"}`)}
	var wg sync.WaitGroup
	for i, s := range []*FileStore{a, b} {
		wg.Add(1)
		go func(s *FileStore, data []byte) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				assert.NoError(t, s.Write(ctx, "State/doc.json", data))
			}
		}(s, payloads[i])
	}
	wg.Wait()

	var doc map[string]string
	require.NoError(t, ReadJSON(ctx, a, "State/doc.json", &doc))
	assert.Contains(t, []string{"a", "b"}, doc["writer"])
}

func TestReadJSONDecodeFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "State/bad.json", []byte("{not json")))

	var v map[string]interface{}
	err := ReadJSON(ctx, s, "State/bad.json", &v)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.True(t, IsRecoverable(err))
}

func TestIOErrorUnwrap(t *testing.T) {
	err := &IOError{Op: "write", Path: "x", Err: os.ErrPermission}
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), "write x")
	assert.False(t, IsRecoverable(err))
}

func TestReadJSONRejectsOversized(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	big := make([]byte, utils.MaxJSONSize+1)
	for i := range big {
		big[i] = ' '
	}
	require.NoError(t, s.Write(ctx, "State/big.json", big))

	var v map[string]interface{}
	err := ReadJSON(ctx, s, "State/big.json", &v)
	assert.ErrorIs(t, err, ErrDecode)
}
