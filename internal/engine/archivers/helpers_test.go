package archivers

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/gziptool/gziptool/internal/engine/compression"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// mockSink records every entry written to it.
type mockSink struct {
	writes  map[string][]byte
	creates []string
	closed  bool
}

func newMockSink() *mockSink {
	return &mockSink{writes: make(map[string][]byte)}
}

func (m *mockSink) Name() string { return "mock" }
func (m *mockSink) Kind() string { return "mock" }

func (m *mockSink) Create(_ context.Context, path string) (io.WriteCloser, error) {
	m.creates = append(m.creates, path)
	return &mockFile{sink: m, path: path}, nil
}

func (m *mockSink) Close(_ context.Context) error {
	m.closed = true
	return nil
}

type mockFile struct {
	bytes.Buffer
	sink *mockSink
	path string
}

func (f *mockFile) Close() error {
	f.sink.writes[f.path] = f.Bytes()
	return nil
}

// compressRaw compresses payload as-is, for crafting archives the writer refuses to produce.
func compressRaw(t *testing.T, codec string, payload string) []byte {
	t.Helper()
	c, err := compression.Lookup(codec)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := c.NewWriter(&buf)
	require.NoError(t, err)
	_, err = io.WriteString(w, payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// decompressRaw returns the decompressed payload of an archive.
func decompressRaw(t *testing.T, data []byte) string {
	t.Helper()
	c, ok := compression.Detect(data)
	require.True(t, ok)
	r, err := c.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func newMemMapFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if dir != "" {
			require.NoError(t, fs.MkdirAll(dir, 0755))
		}

		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}
