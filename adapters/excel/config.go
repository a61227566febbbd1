package excel

import (
	"surveystat/internal/config"
)

// AlphaLayout describes how a reliability upload maps onto item columns.
// The defaults match survey exports where every answer of a respondent was
// written into the first cell as one semicolon-joined string.
type AlphaLayout struct {
	HasHeader         bool   `json:"has_header"`
	SourceDelimiter   rune   `json:"source_delimiter"`
	PackedFirstColumn bool   `json:"packed_first_column"`
	PackedDelimiter   rune   `json:"packed_delimiter"`
	DropEmptyColumns  bool   `json:"drop_empty_columns"`
	Sheet             string `json:"sheet"` // xlsx only; empty means the first sheet
}

// NormalityLayout describes the semicolon CSV read by the normality dashboard.
type NormalityLayout struct {
	Delimiter               rune `json:"delimiter"`
	TrailingMetadataColumns int  `json:"trailing_metadata_columns"`
}

// DefaultAlphaLayout returns the layout of the reference survey export
func DefaultAlphaLayout() AlphaLayout {
	return AlphaLayout{
		HasHeader:         true,
		SourceDelimiter:   ',',
		PackedFirstColumn: true,
		PackedDelimiter:   ';',
		DropEmptyColumns:  true,
	}
}

// DefaultNormalityLayout returns the layout of the reference survey export
func DefaultNormalityLayout() NormalityLayout {
	return NormalityLayout{
		Delimiter:               ';',
		TrailingMetadataColumns: 2,
	}
}

// AlphaLayoutFromConfig converts validated loader settings
func AlphaLayoutFromConfig(c config.AlphaLoaderConfig) AlphaLayout {
	return AlphaLayout{
		HasHeader:         c.HasHeader,
		SourceDelimiter:   config.Rune(c.SourceDelimiter),
		PackedFirstColumn: c.PackedFirstColumn,
		PackedDelimiter:   config.Rune(c.PackedDelimiter),
		DropEmptyColumns:  c.DropEmptyColumns,
		Sheet:             c.Sheet,
	}
}

// NormalityLayoutFromConfig converts validated loader settings
func NormalityLayoutFromConfig(c config.NormalityLoaderConfig) NormalityLayout {
	return NormalityLayout{
		Delimiter:               config.Rune(c.Delimiter),
		TrailingMetadataColumns: c.TrailingMetadataColumns,
	}
}
