package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"surveystat/adapters/report"
	"surveystat/app"
	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

// userError replaces err with the message the dashboards would show
func userError(err error) error {
	return errors.New(errors.GetCode(err), app.Message(err))
}

// writeStructured handles the formats shared by both reports; ok is false for text
func writeStructured(w io.Writer, v interface{}, format string) (ok bool, err error) {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case "text", "":
		return false, nil
	}
	return true, errors.InvalidInput(fmt.Sprintf("unknown output format %q", format))
}

func writeAlpha(w io.Writer, r *survey.AlphaReport, format string) error {
	if f, err := report.ParseFormat(format); err == nil && format != "" {
		body, err := report.RenderAlpha(r, f)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	}
	if ok, err := writeStructured(w, r, format); ok {
		return err
	}

	fmt.Fprintf(w, "File:        %s\n", r.Filename)
	fmt.Fprintf(w, "Run:         %s\n", r.RunID)
	if r.Alpha.Defined {
		fmt.Fprintf(w, "Alpha:       %.3f (%s)\n", r.Alpha.Value, r.Alpha.Interpretation())
	} else {
		fmt.Fprintf(w, "Alpha:       undefined (%s)\n", r.Alpha.Reason)
	}
	fmt.Fprintf(w, "Items:       %d\n", r.Alpha.Items)
	fmt.Fprintf(w, "Respondents: %d\n", r.Alpha.Respondents)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\nColumn averages")
	for _, avg := range r.Averages {
		fmt.Fprintf(tw, "%s\t%.3f\t\n", avg.Column, avg.Mean)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, table := range r.FrequencyTables {
		fmt.Fprintf(w, "\n%s\n", table.Column)
		fmt.Fprintln(tw, "Response\tFrequency\tPercent\tValid Percent\tCumulative Percent\t")
		for _, row := range table.Rows {
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t\n",
				survey.FormatResponse(row.Response), row.Frequency, row.Percent, row.ValidPercent, row.CumulativePercent)
		}
		fmt.Fprintf(tw, "Total\t%d\t\t\t\t\n", table.Total())
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeNormality(w io.Writer, r *survey.NormalityReport, format string) error {
	if f, err := report.ParseFormat(format); err == nil && format != "" {
		body, err := report.RenderNormality(r, f)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	}
	if ok, err := writeStructured(w, r, format); ok {
		return err
	}

	fmt.Fprintf(w, "File:    %s\n", r.Filename)
	if r.Result == nil {
		fmt.Fprintln(w, "Columns:")
		for _, name := range r.AvailableColumns {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return nil
	}

	res := r.Result
	fmt.Fprintf(w, "Column:  %s (n=%d, %d missing)\n", res.Column, res.N, res.Missing)
	fmt.Fprintf(w, "W:       %.3f\n", res.Statistic)
	fmt.Fprintf(w, "p-value: %.3f\n", res.PValue)
	fmt.Fprintf(w, "The data in %s is %s (significance level %g).\n", res.Column, res.Verdict, res.Alpha)
	return nil
}
