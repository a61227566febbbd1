package container

import (
	"surveystat/adapters/charts"
	"surveystat/adapters/excel"
	"surveystat/app"
	"surveystat/internal"
	"surveystat/internal/config"
	"surveystat/internal/errors"
	"surveystat/internal/profiling"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Reader *excel.DataReader
	Charts *charts.Renderer

	// Workflows
	Tester    *profiling.NormalityTester
	Alpha     *app.AlphaService
	Normality *app.NormalityService
}

// New wires every service from cfg. A nil logger is built from cfg.Logging.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Reader: excel.NewDataReader(logger),
		Charts: charts.NewRenderer(),
		Tester: profiling.NewNormalityTester(cfg.Analysis.SignificanceLevel, logger),
	}
	c.Alpha = app.NewAlphaService(c.Reader, excel.AlphaLayoutFromConfig(cfg.Loader.Alpha), logger)
	c.Normality = app.NewNormalityService(c.Reader, excel.NormalityLayoutFromConfig(cfg.Loader.Normality), c.Tester, logger)

	logger.Debug("[Container] services ready (significance level %.3f, %d chart workers)",
		cfg.Analysis.SignificanceLevel, cfg.Server.ChartWorkers)
	return c, nil
}
