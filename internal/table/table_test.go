package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadStripsBOMAndNormalises(t *testing.T) {
	t.Parallel()

	csvText := "\ufeff기관코드,검체명,검사결과\n" +
		"10001, CCA-25-04 ,12.5\n" +
		"10002,CCA-25-04,NaN\n" +
		"\n" +
		"10003,CCA-25-04\n" +
		"10004,CCA-25-04,-,extra\n"
	path := writeFile(t, "lab.csv", []byte(csvText))

	tbl, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"기관코드", "검체명", "검사결과"}, tbl.Header)
	require.Equal(t, 4, tbl.Len())
	assert.True(t, tbl.Has("기관코드"), "BOM must not stick to the first header")
	assert.Equal(t, "CCA-25-04", tbl.Get(tbl.Rows[0], "검체명"))
	assert.Equal(t, "12.5", tbl.Get(tbl.Rows[0], "검사결과"))
	assert.Equal(t, "", tbl.Get(tbl.Rows[1], "검사결과"), "NaN is missing")
	assert.Equal(t, "", tbl.Get(tbl.Rows[2], "검사결과"), "short rows are padded")
	assert.Len(t, tbl.Rows[3], 3, "long rows are truncated")
	assert.Equal(t, "", tbl.Get(tbl.Rows[3], "검사결과"))
	assert.Equal(t, "", tbl.Get(tbl.Rows[0], "없는컬럼"))
}

func TestLoadDecodesEUCKR(t *testing.T) {
	t.Parallel()

	utf8Text := "기관코드,기준분류\n20001,지멘스\n"
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(utf8Text))
	require.NoError(t, err)

	for _, enc := range []string{"", EncodingEUCKR, EncodingCP949} {
		path := writeFile(t, "legacy.csv", encoded)
		tbl, err := Load(path, Options{Encoding: enc})
		require.NoError(t, err, "encoding %q", enc)
		require.Equal(t, 1, tbl.Len())
		assert.Equal(t, "지멘스", tbl.Get(tbl.Rows[0], "기준분류"), "encoding %q", enc)
	}
}

func TestParseTabDelimited(t *testing.T) {
	t.Parallel()

	tbl, err := Parse([]byte("a\tb\n1\t2\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "2", tbl.Get(tbl.Rows[0], "b"))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	tbl, err := Parse([]byte("기관코드,검체명\n1,x\n"), Options{})
	require.NoError(t, err)
	assert.NoError(t, tbl.Require("기관코드"))

	err = tbl.Require("기관코드", "검사결과", "기준분류")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "검사결과, 기준분류")
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)

	empty := writeFile(t, "empty.csv", []byte("\ufeff\n\n"))
	_, err = Load(empty, Options{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte("a,b\n"), Options{Encoding: "latin-9"})
	assert.Error(t, err)
}

func TestLoadWorkbook(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	first := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(first, "A1", "기관코드"))
	require.NoError(t, f.SetCellValue(first, "B1", "CCA-25-04"))
	require.NoError(t, f.SetCellValue(first, "A2", "30001"))
	require.NoError(t, f.SetCellValue(first, "B2", 1.25))

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "name"))
	require.NoError(t, f.SetCellValue("Other", "A2", "N/A"))

	path := filepath.Join(t.TempDir(), "wide.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := Load(path, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "30001", tbl.Get(tbl.Rows[0], "기관코드"))
	assert.Equal(t, "1.25", tbl.Get(tbl.Rows[0], "CCA-25-04"))

	other, err := Load(path, Options{Sheet: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "", other.Get(other.Rows[0], "name"))

	_, err = Load(path, Options{Sheet: "Nope"})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", " ", "NaN", "nan", "NA", "N/A", "None", "null", "-"} {
		assert.True(t, IsMissing(in), "%q", in)
	}
	assert.Equal(t, "YES", Normalize(" YES "))
	assert.Equal(t, "-3.2", Normalize("-3.2"))
}
