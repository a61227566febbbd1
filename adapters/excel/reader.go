package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"surveystat/domain/survey"
	"surveystat/internal"
	"surveystat/internal/errors"
)

// DataReader turns uploaded CSV and Excel bytes into numeric tables.
// It holds no per-upload state and is safe for concurrent use.
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader logging through logger (DefaultLogger when nil)
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

// fileType returns the lower-case extension without the dot
func fileType(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// LoadAlphaTable reads a reliability upload (.csv or .xlsx) into Column1..ColumnN
func (r *DataReader) LoadAlphaTable(upload survey.RawUpload, layout AlphaLayout) (*survey.Table, error) {
	start := time.Now()

	var records RawRecords
	var err error
	switch fileType(upload.Filename) {
	case "csv":
		records, err = r.readCSVRecords(upload.Content, layout.SourceDelimiter)
	case "xlsx":
		records, err = r.readExcelRecords(upload.Content, layout.Sheet)
	default:
		return nil, errors.FormatError(fmt.Sprintf(
			"unsupported file format %q: please upload a CSV or Excel (.xlsx) file", filepath.Ext(upload.Filename)))
	}
	if err != nil {
		return nil, err
	}

	if layout.HasHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.FormatError("file contains no data rows")
	}

	if layout.PackedFirstColumn {
		first := make([]string, len(records))
		for i, rec := range records {
			if len(rec) > 0 {
				first[i] = rec[0]
			}
		}
		records = SplitPackedColumn(first, layout.PackedDelimiter)
	}

	width := records.Width()
	columns := make([]survey.Column, 0, width)
	for j := 0; j < width; j++ {
		cells := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = rec[j]
			}
		}
		col := CoerceColumn(fmt.Sprintf("Column%d", j+1), cells)
		if layout.DropEmptyColumns && len(col.Valid()) == 0 {
			r.logger.Debug("[DataReader] dropping %s: no numeric values", col.Name)
			continue
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, errors.FormatError("file contains no numeric item columns")
	}

	table, err := survey.NewTable(columns)
	if err != nil {
		return nil, errors.FormatErrorf(err, "malformed table")
	}

	r.logger.Info("[DataReader] %s loaded for reliability analysis in %.2fms (%d columns, %d rows)",
		upload.Filename, float64(time.Since(start).Nanoseconds())/1e6, len(table.Columns), table.Rows())
	return table, nil
}

// LoadNormalityTable reads a delimited CSV with a header row, drops the trailing
// metadata columns and coerces the rest to numbers.
func (r *DataReader) LoadNormalityTable(upload survey.RawUpload, layout NormalityLayout) (*survey.Table, error) {
	if fileType(upload.Filename) != "csv" {
		return nil, errors.FormatError(fmt.Sprintf(
			"unsupported file format %q: please upload a CSV file", filepath.Ext(upload.Filename)))
	}

	records, err := r.readCSVRecords(upload.Content, layout.Delimiter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.FormatError("file is empty")
	}

	headers := normalizeHeaders(records[0])
	rows := records[1:]
	if len(rows) == 0 {
		return nil, errors.FormatError("file contains a header but no data rows")
	}
	for i, rec := range rows {
		if len(rec) > len(headers) {
			return nil, errors.FormatError(fmt.Sprintf(
				"row %d has %d fields but the header has %d", i+2, len(rec), len(headers)))
		}
	}

	keep := len(headers) - layout.TrailingMetadataColumns
	if keep <= 0 {
		return nil, errors.FormatError(fmt.Sprintf(
			"file has %d columns; nothing is left after dropping %d metadata columns",
			len(headers), layout.TrailingMetadataColumns))
	}

	columns := make([]survey.Column, keep)
	for j := 0; j < keep; j++ {
		cells := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				cells[i] = rec[j]
			}
		}
		columns[j] = CoerceColumn(headers[j], cells)
	}

	table, err := survey.NewTable(columns)
	if err != nil {
		return nil, errors.FormatErrorf(err, "malformed table")
	}

	r.logger.Info("[DataReader] %s loaded for normality analysis (%d columns, %d rows, %d metadata columns dropped)",
		upload.Filename, len(table.Columns), table.Rows(), layout.TrailingMetadataColumns)
	return table, nil
}

// SplitPackedColumn splits every cell on delim, producing one record per cell.
// Records may differ in length; shorter ones are padded with missing values later.
func SplitPackedColumn(values []string, delim rune) RawRecords {
	sep := string(delim)
	records := make(RawRecords, len(values))
	for i, v := range values {
		records[i] = strings.Split(v, sep)
	}
	return records
}

// decodeText validates UTF-8 and strips a leading byte order mark
func decodeText(content []byte) ([]byte, error) {
	if !utf8.Valid(content) {
		return nil, errors.FormatError("file is not valid UTF-8 text")
	}
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), content)
	if err != nil {
		return nil, errors.FormatErrorf(err, "failed to decode file")
	}
	return decoded, nil
}

// readCSVRecords parses delimited text; blank lines are skipped
func (r *DataReader) readCSVRecords(content []byte, delimiter rune) (RawRecords, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.FormatErrorf(err, "failed to parse CSV file")
	}
	r.logger.Debug("[DataReader] CSV parsed in %.2fms (%d records)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return RawRecords(rows), nil
}

// readExcelRecords reads raw cell values of one sheet; fully empty rows are skipped
func (r *DataReader) readExcelRecords(content []byte, sheet string) (RawRecords, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.FormatErrorf(err, "failed to open Excel file")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.FormatError("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.FormatErrorf(err, "failed to read sheet %q", sheet)
	}

	records := make(RawRecords, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, row)
	}
	r.logger.Debug("[DataReader] sheet %q read (%d rows, %d non-empty)", sheet, len(rows), len(records))
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeHeaders trims names, labels blank ones "Unnamed: i" and suffixes
// repeats with ".1", ".2", ... so every column name is unique.
func normalizeHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	used := make(map[string]bool, len(headerRow))
	repeats := make(map[string]int)
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for used[candidate] {
			repeats[name]++
			candidate = fmt.Sprintf("%s.%d", name, repeats[name])
		}
		used[candidate] = true
		headers[i] = candidate
	}
	return headers
}
