package excel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

func newTestReader() *DataReader {
	return NewDataReader(nil)
}

func columnValues(t *testing.T, table *survey.Table) [][]float64 {
	t.Helper()
	rows := make([][]float64, table.Rows())
	for i := range rows {
		rows[i] = table.Row(i)
	}
	return rows
}

func TestSplitPackedColumn(t *testing.T) {
	records := SplitPackedColumn([]string{"1;2;3", "4;5;6", "7;8;9"}, ';')
	assert.Equal(t, RawRecords{{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}}, records)
	assert.Equal(t, 3, records.Width())
}

func TestLoadAlphaTablePackedWithoutHeader(t *testing.T) {
	layout := DefaultAlphaLayout()
	layout.HasHeader = false

	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "answers.csv",
		Content:  []byte("1;2;3\n4;5;6\n7;8;9"),
	}, layout)
	require.NoError(t, err)

	assert.Equal(t, []string{"Column1", "Column2", "Column3"}, table.Names())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, columnValues(t, table))
}

func TestLoadAlphaTableDefaultLayoutSkipsHeader(t *testing.T) {
	content := "Q1;Q2;Q3\n1;2;3\n4;5;6\n"
	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "ANSWERS.CSV",
		Content:  []byte(content),
	}, DefaultAlphaLayout())
	require.NoError(t, err)

	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, columnValues(t, table))
}

func TestLoadAlphaTableCoercesAndPads(t *testing.T) {
	layout := DefaultAlphaLayout()
	layout.HasHeader = false

	// BOM prefix, "x" is not numeric, the second row is short and every row ends with a delimiter
	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "answers.csv",
		Content:  []byte("\xef\xbb\xbf1;x;3;\n4;5;\n"),
	}, layout)
	require.NoError(t, err)

	// the trailing empty column is dropped
	assert.Equal(t, []string{"Column1", "Column2", "Column3"}, table.Names())
	col2, _ := table.Column("Column2")
	assert.True(t, survey.IsMissing(col2.Values[0]))
	assert.Equal(t, 5.0, col2.Values[1])
	col3, _ := table.Column("Column3")
	assert.Equal(t, 3.0, col3.Values[0])
	assert.True(t, survey.IsMissing(col3.Values[1]))
}

func TestLoadAlphaTableCommaInPackedCellTruncates(t *testing.T) {
	layout := DefaultAlphaLayout()
	layout.HasHeader = false

	// the source delimiter cuts "1,5;2" to "1" before the packed split
	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "answers.csv",
		Content:  []byte("2;3\n1,5;2\n"),
	}, layout)
	require.NoError(t, err)

	col2, _ := table.Column("Column2")
	assert.Equal(t, 3.0, col2.Values[0])
	assert.True(t, survey.IsMissing(col2.Values[1]))
}

func TestLoadAlphaTableUnpackedColumns(t *testing.T) {
	layout := DefaultAlphaLayout()
	layout.PackedFirstColumn = false
	layout.SourceDelimiter = '\t'

	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "answers.csv",
		Content:  []byte("a\tb\n1\t2\n3\t4\n"),
	}, layout)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, columnValues(t, table))
}

func TestLoadAlphaTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Q1;Q2;Q3"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "5;4;5"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "3;3;2"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
		Filename: "answers.xlsx",
		Content:  buf.Bytes(),
	}, DefaultAlphaLayout())
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 4, 5}, {3, 3, 2}}, columnValues(t, table))
}

func TestLoadAlphaTableFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"unsupported extension", "answers.txt", "1;2;3"},
		{"no extension", "answers", "1;2;3"},
		{"legacy excel", "answers.xls", "1;2;3"},
		{"invalid utf-8", "answers.csv", "Q\n1;\xff;3"},
		{"header only", "answers.csv", "Q1;Q2\n"},
		{"empty file", "answers.csv", ""},
		{"nothing numeric", "answers.csv", "Q\na;b\nc;d\n"},
		{"corrupt xlsx", "answers.xlsx", "definitely not a zip archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newTestReader().LoadAlphaTable(survey.RawUpload{
				Filename: tt.filename,
				Content:  []byte(tt.content),
			}, DefaultAlphaLayout())
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.IsFormat(err), "expected a format error, got %v", err)
		})
	}
}

func TestLoadNormalityTable(t *testing.T) {
	content := "Age;Score;Score;;Submitted;Source\n" +
		"21;3.5;4;1;2024-01-01;web\n" +
		"34;n/a;5;2;2024-01-02;web\n" +
		"29;4.5\n"

	table, err := newTestReader().LoadNormalityTable(survey.RawUpload{
		Filename: "export.csv",
		Content:  []byte(content),
	}, DefaultNormalityLayout())
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Score", "Score.1", "Unnamed: 3"}, table.Names())
	assert.Equal(t, 3, table.Rows())

	score, ok := table.Column("Score")
	require.True(t, ok)
	assert.Equal(t, 3.5, score.Values[0])
	assert.True(t, math.IsNaN(score.Values[1]))
	assert.Equal(t, 4.5, score.Values[2])

	dup, _ := table.Column("Score.1")
	assert.Equal(t, 1, dup.MissingCount())
}

func TestLoadNormalityTableNoMetadataColumns(t *testing.T) {
	layout := DefaultNormalityLayout()
	layout.TrailingMetadataColumns = 0

	table, err := newTestReader().LoadNormalityTable(survey.RawUpload{
		Filename: "export.csv",
		Content:  []byte("A;B\n1;2\n"),
	}, layout)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, table.Names())
}

func TestLoadNormalityTableFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"xlsx is not accepted", "export.xlsx", "A;B;C\n1;2;3"},
		{"unsupported extension", "export.txt", "A;B;C\n1;2;3"},
		{"empty", "export.csv", ""},
		{"header only", "export.csv", "A;B;C\n"},
		{"only metadata columns", "export.csv", "A;B\n1;2\n"},
		{"row wider than header", "export.csv", "A;B;C\n1;2;3;4\n"},
		{"invalid utf-8", "export.csv", "A;B;C\n\xfe;2;3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestReader().LoadNormalityTable(survey.RawUpload{
				Filename: tt.filename,
				Content:  []byte(tt.content),
			}, DefaultNormalityLayout())
			require.Error(t, err)
			assert.True(t, errors.IsFormat(err), "expected a format error, got %v", err)
		})
	}
}

func TestNormalizeHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "a.1", "Unnamed: 2", "a.1.1", "a.2"},
		normalizeHeaders([]string{"a", " a ", "", "a.1", "a"}))
}

func TestCoerceNumeric(t *testing.T) {
	assert.Equal(t, 3.0, CoerceNumeric(" 3 "))
	assert.Equal(t, -2.5, CoerceNumeric("-2.5"))
	assert.Equal(t, 1000.0, CoerceNumeric("1e3"))

	for _, raw := range []string{"", "  ", "abc", "3,5", "inf", "-Infinity", "NaN", "0x10", "1e999"} {
		assert.True(t, survey.IsMissing(CoerceNumeric(raw)), "expected %q to coerce to missing", raw)
	}
}
