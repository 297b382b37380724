// internal/util/util_test.go
package util

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeasure struct {
	v  float64
	ok bool
}

func (f fakeMeasure) Float() (float64, bool) { return f.v, f.ok }

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.html")

	require.NoError(t, WriteFileAtomic(path, []byte("<html>첫번째</html>")))
	require.NoError(t, WriteFileAtomic(path, []byte("<html>두번째</html>")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>두번째</html>", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "integer with separator", in: 1000.0, want: "1,000"},
		{name: "large integer", in: 1234567, want: "1,234,567"},
		{name: "small integer", in: 8, want: "8"},
		{name: "quadrillion", in: 1e15, want: "1,000,000,000,000,000"},
		{name: "negative zero", in: math.Copysign(0, -1), want: "0"},
		{name: "two decimals", in: 12.3, want: "12.30"},
		{name: "rounded decimals", in: 1234.567, want: "1,234.57"},
		{name: "negative decimal", in: -0.25, want: "-0.25"},
		{name: "nan", in: math.NaN(), want: "-"},
		{name: "nil", in: nil, want: "-"},
		{name: "empty string", in: "  ", want: "-"},
		{name: "numeric string", in: "2500", want: "2,500"},
		{name: "text passthrough", in: "YES", want: "YES"},
		{name: "missing measure", in: fakeMeasure{}, want: "-"},
		{name: "present measure", in: fakeMeasure{v: 4.5, ok: true}, want: "4.50"},
		{name: "nil pointer", in: (*float64)(nil), want: "-"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", TruncateRunes("hello", 10))
	assert.Equal(t, "hello…", TruncateRunes("helloworld", 5))
	assert.Equal(t, "지멘스헬스…", TruncateRunes("지멘스헬스케어", 5))
}

func TestWrapToWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "wrap words", text: "one two three four", width: 10, want: "one two\nthree four"},
		{
			name:  "long word split",
			text:  "supercalifragilistic",
			width: 5,
			want:  strings.Join([]string{"super", "calif", "ragil", "istic"}, "\n"),
		},
		{name: "preserve blank lines", text: "para one\n\npara two", width: 20, want: "para one\n\npara two"},
		{name: "non-positive width no-op", text: "no wrap", width: 0, want: "no wrap"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WrapToWidth(tt.text, tt.width))
		})
	}
}
