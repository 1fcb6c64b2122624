package runner

import (
	"bytes"
	"testing"
	"time"

	"github.com/gziptool/gziptool/internal/engine/archivers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoArchiveName(t *testing.T) {
	ts := time.Date(2026, time.October, 5, 9, 7, 3, 0, time.Local)
	assert.Equal(t, "archive_05-10-2026-09-07-03", AutoArchiveName(ts))
}

func TestAutoUnarchiveDir(t *testing.T) {
	assert.Equal(t, "unarchive_backup.bin", AutoUnarchiveDir("some/dir/backup.bin"))
	assert.Equal(t, "unarchive_plain", AutoUnarchiveDir("plain"))
}

func TestResolveAuto(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fs, "b.txt", []byte("b"), 0644))
	require.NoError(t, fs.MkdirAll("dir", 0755))

	var packed bytes.Buffer
	require.NoError(t, archivers.Pack(t.Context(), fs, &packed, []string{"a.txt"}, archivers.PackOptions{}))
	require.NoError(t, fs.MkdirAll("data", 0755))
	require.NoError(t, afero.WriteFile(fs, "data/backup.dat", packed.Bytes(), 0644))

	startedAt := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.Local)

	tests := []struct {
		name   string
		args   []string
		want   AutoAction
		wantOk bool
	}{
		{
			name:   "two files are archived",
			args:   []string{"a.txt", "b.txt"},
			want:   AutoAction{Op: AutoArchive, Output: "archive_02-01-2026-03-04-05", Inputs: []string{"a.txt", "b.txt"}},
			wantOk: true,
		},
		{
			name:   "single archive is unarchived",
			args:   []string{"data/backup.dat"},
			want:   AutoAction{Op: AutoUnarchive, Output: "unarchive_backup.dat", Inputs: []string{"data/backup.dat"}},
			wantOk: true,
		},
		{name: "single plain file", args: []string{"a.txt"}},
		{name: "directory among files", args: []string{"a.txt", "dir"}},
		{name: "missing file", args: []string{"a.txt", "missing"}},
		{name: "missing single file", args: []string{"missing"}},
		{name: "no arguments", args: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveAuto(fs, tt.args, startedAt)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
