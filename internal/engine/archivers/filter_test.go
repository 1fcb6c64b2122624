package archivers

import (
	"testing"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		header  Header
		want    bool
		wantNil bool
		wantErr bool
	}{
		{name: "empty expression matches everything", expr: "", wantNil: true, header: Header{Name: "a"}, want: true},
		{name: "blank expression matches everything", expr: "   ", wantNil: true, header: Header{Name: "a"}, want: true},
		{name: "name suffix", expr: `name.endsWith(".log")`, header: Header{Name: "app.log"}, want: true},
		{name: "name suffix mismatch", expr: `name.endsWith(".log")`, header: Header{Name: "app.txt"}, want: false},
		{name: "size bound", expr: `size >= 10`, header: Header{Name: "a", Size: 10}, want: true},
		{name: "regex", expr: `name.matches("^report-[0-9]+$")`, header: Header{Name: "report-42"}, want: true},
		{name: "non-bool expression", expr: `size + 1`, wantErr: true},
		{name: "syntax error", expr: `name ==`, wantErr: true},
		{name: "unknown variable", expr: `mode == 1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewFilter(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, engine.KindUsage, engine.KindOf(err))
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, filter)
			}

			got, err := filter.Match(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_String(t *testing.T) {
	var nilFilter *Filter
	assert.Empty(t, nilFilter.String())

	filter, err := NewFilter(`size > 0`)
	require.NoError(t, err)
	assert.Equal(t, `size > 0`, filter.String())
}
