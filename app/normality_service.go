package app

import (
	"context"
	"strings"

	"surveystat/adapters/excel"
	"surveystat/domain/core"
	"surveystat/domain/survey"
	"surveystat/internal"
	"surveystat/internal/errors"
	"surveystat/internal/profiling"
)

// NormalityService runs the two-step normality workflow: list the columns of an
// upload, then test the one the user picked.
type NormalityService struct {
	reader *excel.DataReader
	layout excel.NormalityLayout
	tester *profiling.NormalityTester
	logger *internal.Logger
}

// NewNormalityService creates the normality workflow; logger may be nil
func NewNormalityService(reader *excel.DataReader, layout excel.NormalityLayout, tester *profiling.NormalityTester, logger *internal.Logger) *NormalityService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if reader == nil {
		reader = excel.NewDataReader(logger)
	}
	if tester == nil {
		tester = profiling.NewNormalityTester(0.05, logger)
	}
	return &NormalityService{
		reader: reader,
		layout: layout,
		tester: tester,
		logger: logger,
	}
}

// Columns loads the upload and reports the columns available for testing
func (s *NormalityService) Columns(ctx context.Context, upload survey.RawUpload) (*survey.NormalityReport, error) {
	report, _, err := s.load(ctx, upload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[NormalityService] run %s: %s offers %d columns",
		report.RunID, upload.Filename, len(report.AvailableColumns))
	return report, nil
}

// Analyze loads the upload and tests the selected column
func (s *NormalityService) Analyze(ctx context.Context, upload survey.RawUpload, column string) (*survey.NormalityReport, error) {
	column = strings.TrimSpace(column)
	if column == "" {
		return nil, errors.InvalidInput("select a column to test")
	}

	report, table, err := s.load(ctx, upload)
	if err != nil {
		return nil, err
	}

	result, err := s.tester.Test(table, column)
	if err != nil {
		s.logger.Warn("[NormalityService] run %s: test on %s failed: %v", report.RunID, column, err)
		return nil, err
	}

	report.SelectedColumn = column
	report.Result = result
	s.logger.Info("[NormalityService] run %s: %s column %s W=%.3f p=%.3f %s",
		report.RunID, upload.Filename, column, result.Statistic, result.PValue, result.Verdict)
	return report, nil
}

func (s *NormalityService) load(ctx context.Context, upload survey.RawUpload) (*survey.NormalityReport, *survey.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	runID := core.NewRunID()

	table, err := s.reader.LoadNormalityTable(upload, s.layout)
	if err != nil {
		s.logger.Warn("[NormalityService] run %s: %s rejected: %v", runID, upload.Filename, err)
		return nil, nil, err
	}

	return &survey.NormalityReport{
		RunID:            runID,
		Filename:         upload.Filename,
		Fingerprint:      core.NewHash(upload.Content),
		GeneratedAt:      core.Now(),
		AvailableColumns: table.Names(),
	}, table, nil
}
