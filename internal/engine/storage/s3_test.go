package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	uploads []mockUpload
	err     error
}

type mockUpload struct {
	bucket      string
	key         string
	body        []byte
	contentType string
}

func (m *mockUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, _ := io.ReadAll(input.Body)
	upload := mockUpload{
		bucket: *input.Bucket,
		key:    *input.Key,
		body:   body,
	}
	if input.ContentType != nil {
		upload.contentType = *input.ContentType
	}
	m.uploads = append(m.uploads, upload)
	return &manager.UploadOutput{}, nil
}

type mockGetter struct {
	objects map[string][]byte
	gotKeys []string
}

func (m *mockGetter) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *input.Bucket + "/" + *input.Key
	m.gotKeys = append(m.gotKeys, key)
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3_Name(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		prefix   string
		expected string
	}{
		{
			name:     "bucket only",
			bucket:   "my-bucket",
			prefix:   "",
			expected: "s3(my-bucket)",
		},
		{
			name:     "bucket with prefix",
			bucket:   "my-bucket",
			prefix:   "backups/2024",
			expected: "s3(my-bucket/backups/2024)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewS3WithClients(tt.bucket, tt.prefix, &mockUploader{}, &mockGetter{})
			assert.Equal(t, tt.expected, storage.Name())
		})
	}
}

func TestS3_Kind(t *testing.T) {
	storage := NewS3WithClients("bucket", "", &mockUploader{}, &mockGetter{})
	assert.Equal(t, "s3", storage.Kind())
}

func TestS3_Create(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		path        string
		expectedKey string
	}{
		{
			name:        "without prefix",
			path:        "archive.gz",
			expectedKey: "archive.gz",
		},
		{
			name:        "with prefix",
			prefix:      "backups",
			path:        "archive.gz",
			expectedKey: "backups/archive.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &mockUploader{}
			storage := NewS3WithClients("my-bucket", tt.prefix, uploader, &mockGetter{})

			w, err := storage.Create(t.Context(), tt.path)
			require.NoError(t, err)
			_, err = w.Write([]byte("part one, "))
			require.NoError(t, err)
			_, err = w.Write([]byte("part two"))
			require.NoError(t, err)

			assert.Empty(t, uploader.uploads, "nothing is uploaded before Close")
			require.NoError(t, w.Close())

			require.Len(t, uploader.uploads, 1)
			assert.Equal(t, "my-bucket", uploader.uploads[0].bucket)
			assert.Equal(t, tt.expectedKey, uploader.uploads[0].key)
			assert.Equal(t, "part one, part two", string(uploader.uploads[0].body))
			assert.Equal(t, "application/gzip", uploader.uploads[0].contentType)

			require.Error(t, w.Close(), "second Close should error")
		})
	}
}

func TestS3_CreateUploadError(t *testing.T) {
	storage := NewS3WithClients("bucket", "", &mockUploader{err: errors.New("access denied")}, &mockGetter{})

	w, err := storage.Create(t.Context(), "a.gz")
	require.NoError(t, err)
	err = w.Close()
	require.Error(t, err)
	assert.ErrorContains(t, err, "s3://bucket/a.gz")
	assert.ErrorContains(t, err, "access denied")
}

func TestS3_Open(t *testing.T) {
	getter := &mockGetter{objects: map[string][]byte{"bucket/in/archive": []byte("compressed")}}
	storage := NewS3WithClients("bucket", "in", &mockUploader{}, getter)

	r, err := storage.Open(t.Context(), "archive")
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "compressed", string(content))

	_, err = storage.Open(t.Context(), "missing")
	require.Error(t, err)
	assert.ErrorContains(t, err, "s3://bucket/in/missing")
	assert.Equal(t, []string{"bucket/in/archive", "bucket/in/missing"}, getter.gotKeys)
}

func TestContentTypeFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "archive.gz", expected: "application/gzip"},
		{path: "archive.zst", expected: "application/zstd"},
		{path: "archive.lz4", expected: "application/x-lz4"},
		{path: "notes.txt", expected: "text/plain"},
		{path: "data.json", expected: "application/json"},
		{path: "archive_15-10-2026-10-00-00", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, contentTypeFromPath(tt.path))
		})
	}
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw        string
		wantBucket string
		wantKey    string
		wantOk     bool
	}{
		{raw: "s3://bucket/key.gz", wantBucket: "bucket", wantKey: "key.gz", wantOk: true},
		{raw: "s3://bucket/nested/prefix", wantBucket: "bucket", wantKey: "nested/prefix", wantOk: true},
		{raw: "s3://bucket", wantBucket: "bucket", wantKey: "", wantOk: true},
		{raw: "s3:///key", wantOk: false},
		{raw: "archive.gz", wantOk: false},
		{raw: "https://bucket/key", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bucket, key, ok := ParseS3URL(tt.raw)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
