package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"surveystat/domain/survey"
	"surveystat/internal"
	"surveystat/internal/config"
	"surveystat/internal/container"
	"surveystat/internal/errors"
	"surveystat/internal/testkit"
	"surveystat/ui"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	logLevel   string
	format     string
}

func main() {
	_ = godotenv.Load()

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "surveystat",
		Short:         "Reliability and normality analysis for survey exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override logging.level (ERROR, WARN, INFO, DEBUG)")
	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "f", "text", "Output format: text, json, yaml, markdown or html")

	rootCmd.AddCommand(
		newAlphaCmd(flags),
		newColumnsCmd(flags),
		newNormalityCmd(flags),
		newSampleCmd(),
		newServeCmd(flags),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build loads configuration and wires the services
func build(flags *globalFlags) (*container.Container, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	c, err := container.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	// analysis output goes to stdout, keep the log quiet unless asked
	if flags.logLevel == "" && c.Logger.GetLevel() > internal.LogLevelWarn {
		c.Logger.SetLevel(internal.LogLevelWarn)
	}
	return c, nil
}

// readFile loads an upload from disk the way the browser would send it
func readFile(path string) (survey.RawUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return survey.RawUpload{}, errors.InvalidInput(fmt.Sprintf("cannot read %s: %v", path, err))
	}
	return survey.RawUpload{Filename: filepath.Base(path), Content: content}, nil
}

func newAlphaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "alpha [file]",
		Short: "Compute Cronbach's alpha with frequency tables",
		Long: `Compute Cronbach's alpha for a .csv or .xlsx survey export whose answers
are packed into the first column, e.g. "4;5;3;4".

Example: surveystat alpha answers.csv --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(flags)
			if err != nil {
				return err
			}
			upload, err := readFile(args[0])
			if err != nil {
				return err
			}
			report, err := c.Alpha.Analyze(cmd.Context(), upload)
			if err != nil {
				return userError(err)
			}
			return writeAlpha(cmd.OutOrStdout(), report, flags.format)
		},
	}
}

func newColumnsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns [file]",
		Short: "List the columns available for a normality test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(flags)
			if err != nil {
				return err
			}
			upload, err := readFile(args[0])
			if err != nil {
				return err
			}
			report, err := c.Normality.Columns(cmd.Context(), upload)
			if err != nil {
				return userError(err)
			}
			return writeNormality(cmd.OutOrStdout(), report, flags.format)
		},
	}
}

func newNormalityCmd(flags *globalFlags) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "normality [file]",
		Short: "Run a Shapiro-Wilk normality test on one column",
		Long: `Run a Shapiro-Wilk normality test on one numeric column of a ';'-delimited
CSV export. The trailing metadata columns of the export are ignored.

Example: surveystat normality export.csv --column Age`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(flags)
			if err != nil {
				return err
			}
			upload, err := readFile(args[0])
			if err != nil {
				return err
			}
			report, err := c.Normality.Analyze(cmd.Context(), upload, column)
			if err != nil {
				return userError(err)
			}
			return writeNormality(cmd.OutOrStdout(), report, flags.format)
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Column to test")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newSampleCmd() *cobra.Command {
	cfg := testkit.DefaultSurveyConfig()
	var kind string
	var out string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic upload for trying the dashboards",
		Long: `Generate a synthetic upload: "likert" answers for the reliability dashboard,
or a "normal" or "skewed" column for the normality dashboard.

Example: surveystat sample --kind likert --rows 200 --seed 7 --out answers.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := testkit.ParseKind(kind)
			if err != nil {
				return err
			}
			content, err := testkit.NewSurveyDataGenerator(cfg).Generate(k)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(out, content, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", out)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(content), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(testkit.KindLikert), "Dataset kind: likert, normal or skewed")
	cmd.Flags().IntVar(&cfg.Respondents, "rows", cfg.Respondents, "Number of respondents")
	cmd.Flags().IntVar(&cfg.Items, "items", cfg.Items, "Number of Likert items")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of unanswered Likert cells")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for deterministic output")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			if flags.logLevel != "" {
				cfg.Logging.Level = flags.logLevel
			}
			if port != "" {
				cfg.Server.Port = port
			}
			gin.SetMode(cfg.Server.GinMode)

			c, err := container.New(cfg, nil)
			if err != nil {
				return err
			}
			server, err := ui.NewServer(ui.Options{
				Alpha:     c.Alpha,
				Normality: c.Normality,
				Charts:    c.Charts,
				Config:    cfg.Server,
				Logger:    c.Logger,
			})
			if err != nil {
				return err
			}
			return server.Run(cmd.Context(), ":"+cfg.Server.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Override server.port")
	return cmd
}
