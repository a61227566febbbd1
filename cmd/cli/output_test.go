package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

func sampleAlphaReport() *survey.AlphaReport {
	return &survey.AlphaReport{
		Filename: "answers.csv",
		Alpha:    survey.AlphaResult{Value: 0.8123, Defined: true, Items: 2, Respondents: 3},
		Columns:  []string{"Column1", "Column2"},
		FrequencyTables: []survey.FrequencyTable{{
			Column: "Column1",
			Rows:   []survey.FrequencyRow{{Response: 1, Frequency: 3, Percent: 100, ValidPercent: 100, CumulativePercent: 100}},
		}},
		Averages: []survey.ColumnAverage{{Column: "Column1", Mean: 1}, {Column: "Column2", Mean: 2.5}},
	}
}

func TestWriteAlphaText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAlpha(&buf, sampleAlphaReport(), "text"))

	out := buf.String()
	assert.Contains(t, out, "Alpha:       0.812 (good)")
	assert.Contains(t, out, "Respondents: 3")
	assert.Contains(t, out, "Column2")
	assert.Contains(t, out, "Total")
}

func TestWriteAlphaStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAlpha(&buf, sampleAlphaReport(), "json"))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "answers.csv", decoded["filename"])

	buf.Reset()
	require.NoError(t, writeAlpha(&buf, sampleAlphaReport(), "yaml"))
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, []interface{}{"Column1", "Column2"}, fromYAML["columns"])

	buf.Reset()
	require.NoError(t, writeAlpha(&buf, sampleAlphaReport(), "markdown"))
	assert.Contains(t, buf.String(), "# Cronbach's Alpha Report")

	err := writeAlpha(&buf, sampleAlphaReport(), "pdf")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestWriteNormalityText(t *testing.T) {
	var buf bytes.Buffer
	columns := &survey.NormalityReport{Filename: "export.csv", AvailableColumns: []string{"Age", "Score"}}
	require.NoError(t, writeNormality(&buf, columns, "text"))
	assert.Contains(t, buf.String(), "  Score\n")

	buf.Reset()
	tested := &survey.NormalityReport{
		Filename:       "export.csv",
		SelectedColumn: "Age",
		Result: &survey.NormalityResult{
			Column: "Age", N: 30, Statistic: 0.97, PValue: 0.41, Alpha: 0.05,
			Normal: true, Verdict: survey.VerdictNormal,
		},
	}
	require.NoError(t, writeNormality(&buf, tested, "text"))
	assert.Contains(t, buf.String(), "p-value: 0.410")
	assert.Contains(t, buf.String(), "The data in Age is consistent with normal distribution")
}

func TestUserError(t *testing.T) {
	err := userError(errors.FormatError("bad header"))
	assert.Equal(t, "There was an error processing this file: bad header", err.Error())
	assert.True(t, errors.IsFormat(err))
}
