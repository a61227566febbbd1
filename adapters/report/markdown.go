package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"surveystat/domain/survey"
)

// MarkdownWriter outputs analysis reports in Markdown format
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// WriteAlpha outputs the reliability report
func (w *MarkdownWriter) WriteAlpha(report *survey.AlphaReport) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Cronbach's Alpha Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", markdown.Code(report.Filename)},
			{"Run ID", report.RunID.String()},
			{"Fingerprint", markdown.Code(report.Fingerprint.Short())},
			{"Generated", report.GeneratedAt.String()},
			{"Items", strconv.Itoa(report.Alpha.Items)},
			{"Respondents", strconv.Itoa(report.Alpha.Respondents)},
			{"Cronbach's Alpha", markdown.Bold(report.Alpha.String())},
		},
	})
	md.PlainText("")
	w.writeAlphaAlert(md, report.Alpha)

	md.H2("Column Averages")
	md.PlainText("")
	rows := make([][]string, len(report.Averages))
	for i, a := range report.Averages {
		rows[i] = []string{a.Column, strconv.FormatFloat(a.Mean, 'f', 3, 64)}
	}
	md.Table(markdown.TableSet{Header: []string{"Column", "Average"}, Rows: rows})
	md.PlainText("")

	md.H2("Frequency Tables")
	md.PlainText("")
	for i, table := range report.FrequencyTables {
		w.writeFrequencyTable(md, table)
		if i < len(report.Pies) {
			w.writePieChart(md, report.Pies[i])
		}
	}

	return md.Build()
}

func (w *MarkdownWriter) writeAlphaAlert(md *markdown.Markdown, alpha survey.AlphaResult) {
	switch interpretation := alpha.Interpretation(); interpretation {
	case "undefined":
		md.Cautionf("Cronbach's Alpha is undefined: %s.", alpha.Reason)
	case "excellent", "good":
		md.Tip(fmt.Sprintf("Internal consistency is %s (alpha = %s).", interpretation, alpha))
	case "acceptable":
		md.Note(fmt.Sprintf("Internal consistency is acceptable (alpha = %s).", alpha))
	default:
		md.Warningf("Internal consistency is %s (alpha = %s). Review the items before using the scale.",
			interpretation, alpha)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFrequencyTable(md *markdown.Markdown, table survey.FrequencyTable) {
	md.H3(table.Column)
	md.PlainText("")
	if len(table.Rows) == 0 {
		md.PlainText("No numeric responses.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(table.Rows)+1)
	for _, r := range table.Rows {
		rows = append(rows, []string{
			survey.FormatResponse(r.Response),
			strconv.Itoa(r.Frequency),
			formatPercent(r.Percent),
			formatPercent(r.ValidPercent),
			formatPercent(r.CumulativePercent),
		})
	}
	rows = append(rows, []string{markdown.Bold("Total"), markdown.Bold(strconv.Itoa(table.Total())), "", "", ""})

	md.Table(markdown.TableSet{
		Header: []string{"Response", "Frequency", "Percent", "Valid Percent", "Cumulative Percent"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the response shares
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, pie survey.Pie) {
	if len(pie.Slices) == 0 {
		return
	}
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Responses to "+pie.Column),
		piechart.WithShowData(true),
	)
	for _, s := range pie.Slices {
		chart.LabelAndIntValue(survey.FormatResponse(s.Value), uint64(s.Count))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteNormality outputs the normality test report
func (w *MarkdownWriter) WriteNormality(report *survey.NormalityReport) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Shapiro-Wilk Normality Test")
	md.PlainText("")

	props := [][]string{
		{"File", markdown.Code(report.Filename)},
		{"Run ID", report.RunID.String()},
		{"Fingerprint", markdown.Code(report.Fingerprint.Short())},
		{"Generated", report.GeneratedAt.String()},
	}
	result := report.Result
	if result == nil {
		md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: props})
		md.PlainText("")
		md.H2("Available Columns")
		md.PlainText("")
		md.BulletList(report.AvailableColumns...)
		return md.Build()
	}

	props = append(props,
		[]string{"Column", result.Column},
		[]string{"Values tested", strconv.Itoa(result.N)},
		[]string{"Missing values dropped", strconv.Itoa(result.Missing)},
		[]string{"W statistic", strconv.FormatFloat(result.Statistic, 'f', 3, 64)},
		[]string{"p-value", strconv.FormatFloat(result.PValue, 'f', 3, 64)},
		[]string{"Significance level", strconv.FormatFloat(result.Alpha, 'f', -1, 64)},
	)
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: props})
	md.PlainText("")

	if result.Normal {
		md.Tip(fmt.Sprintf("The data in %s is %s.", result.Column, result.Verdict))
	} else {
		md.Warning(fmt.Sprintf("The data in %s is %s.", result.Column, result.Verdict))
	}
	md.PlainText("")

	s := result.Summary
	md.H2("Distribution Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Mean", formatStat(s.Mean)},
			{"Standard deviation", formatStat(s.StdDev)},
			{"Minimum", formatStat(s.Min)},
			{"Q1", formatStat(s.Q25)},
			{"Median", formatStat(s.Median)},
			{"Q3", formatStat(s.Q75)},
			{"Maximum", formatStat(s.Max)},
			{"Skewness", formatStat(s.Skewness)},
			{"Excess kurtosis", formatStat(s.Kurtosis)},
			{"IQR outliers", strconv.Itoa(s.Outliers)},
		},
	})

	return md.Build()
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
