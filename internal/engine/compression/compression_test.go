package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		codec    string
		wantName string
		wantErr  bool
	}{
		{name: "gzip", codec: "gzip", wantName: Gzip},
		{name: "zstd", codec: "zstd", wantName: Zstd},
		{name: "lz4", codec: "lz4", wantName: LZ4},
		{name: "empty defaults to gzip", codec: "", wantName: Gzip},
		{name: "unsupported", codec: "bzip2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := Lookup(tt.codec)
			if tt.wantErr {
				var unsupported *UnsupportedCodecError
				require.ErrorAs(t, err, &unsupported)
				assert.Equal(t, []string{Gzip, LZ4, Zstd}, unsupported.Available)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, codec.Name)
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("gziptool payload\n"), 512)

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			w, err := codec.NewWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.True(t, bytes.HasPrefix(buf.Bytes(), codec.Magic), "stream should start with the codec magic")

			detected, ok := Detect(buf.Bytes()[:MaxMagicLen])
			require.True(t, ok)
			assert.Equal(t, name, detected.Name)

			r, err := codec.NewReader(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}
}

func TestCodec_CopyAfterWrite(t *testing.T) {
	header := []byte("a.txt\n11\n")
	content := []byte("hello world")

	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			codec, err := Lookup(name)
			require.NoError(t, err)

			var buf bytes.Buffer
			w, err := codec.NewWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write(header)
			require.NoError(t, err)
			n, err := io.CopyN(w, bytes.NewReader(content), int64(len(content)))
			require.NoError(t, err)
			assert.Equal(t, int64(len(content)), n)
			require.NoError(t, w.Close())

			r, err := codec.NewReader(&buf)
			require.NoError(t, err)
			var got bytes.Buffer
			_, err = io.Copy(&got, r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, append(header, content...), got.Bytes())
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		want   string
		wantOk bool
	}{
		{name: "gzip magic", prefix: []byte{0x1f, 0x8b}, want: Gzip, wantOk: true},
		{name: "gzip magic with trailing bytes", prefix: []byte{0x1f, 0x8b, 0x08, 0x00}, want: Gzip, wantOk: true},
		{name: "zstd magic", prefix: []byte{0x28, 0xb5, 0x2f, 0xfd}, want: Zstd, wantOk: true},
		{name: "lz4 magic", prefix: []byte{0x04, 0x22, 0x4d, 0x18}, want: LZ4, wantOk: true},
		{name: "truncated zstd magic", prefix: []byte{0x28, 0xb5}},
		{name: "single byte", prefix: []byte{0x1f}},
		{name: "empty", prefix: nil},
		{name: "plain text", prefix: []byte("hello")},
		{name: "swapped gzip bytes", prefix: []byte{0x8b, 0x1f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, ok := Detect(tt.prefix)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, codec.Name)
			}
		})
	}
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("gzip")
	require.Error(t, err)
	assert.ErrorContains(t, err, "no codecs registered")

	_, ok := r.Detect([]byte{0x1f, 0x8b})
	assert.False(t, ok)
}
