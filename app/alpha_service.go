package app

import (
	"context"
	"time"

	"surveystat/adapters/excel"
	"surveystat/domain/core"
	"surveystat/domain/survey"
	"surveystat/internal"
	"surveystat/internal/analysis"
	"surveystat/internal/errors"
)

// AlphaService runs the reliability workflow: load, impute, Cronbach's Alpha,
// per-item frequency tables and chart data.
type AlphaService struct {
	reader *excel.DataReader
	layout excel.AlphaLayout
	logger *internal.Logger
}

// NewAlphaService creates the reliability workflow; logger may be nil
func NewAlphaService(reader *excel.DataReader, layout excel.AlphaLayout, logger *internal.Logger) *AlphaService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if reader == nil {
		reader = excel.NewDataReader(logger)
	}
	return &AlphaService{
		reader: reader,
		layout: layout,
		logger: logger,
	}
}

// Analyze builds the full reliability report for one upload.
// A failed load returns no report. An alpha that cannot be computed (one item,
// one respondent) becomes the undefined marker so the descriptive output still renders.
func (s *AlphaService) Analyze(ctx context.Context, upload survey.RawUpload) (*survey.AlphaReport, error) {
	startTime := time.Now()
	runID := core.NewRunID()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := s.reader.LoadAlphaTable(upload, s.layout)
	if err != nil {
		s.logger.Warn("[AlphaService] run %s: %s rejected: %v", runID, upload.Filename, err)
		return nil, err
	}

	filled, err := analysis.FillMissing(table)
	if err != nil {
		s.logger.Warn("[AlphaService] run %s: imputation failed: %v", runID, err)
		return nil, err
	}

	alpha, err := analysis.CronbachAlpha(filled)
	if err != nil {
		if !errors.IsComputation(err) {
			return nil, err
		}
		alpha = survey.UndefinedAlpha(err.Error(), len(filled.Columns), filled.Rows())
	}

	report := &survey.AlphaReport{
		RunID:           runID,
		Filename:        upload.Filename,
		Fingerprint:     core.NewHash(upload.Content),
		GeneratedAt:     core.Now(),
		Alpha:           alpha,
		Columns:         table.Names(),
		FrequencyTables: make([]survey.FrequencyTable, 0, len(table.Columns)),
		Histograms:      make([]survey.Histogram, 0, len(table.Columns)),
		Pies:            make([]survey.Pie, 0, len(table.Columns)),
		Averages:        analysis.ColumnAverages(filled),
	}

	// frequency output uses the raw table; imputed values would invent responses
	for _, col := range table.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.FrequencyTables = append(report.FrequencyTables, analysis.FrequencyTable(col))
		report.Histograms = append(report.Histograms, analysis.Histogram(col))
		report.Pies = append(report.Pies, analysis.Pie(col))
	}

	s.logger.Info("[AlphaService] run %s: %s (%s) alpha=%s items=%d respondents=%d in %.2fms",
		runID, upload.Filename, report.Fingerprint.Short(), alpha, alpha.Items, alpha.Respondents,
		float64(time.Since(startTime).Nanoseconds())/1e6)
	return report, nil
}
