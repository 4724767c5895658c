package triage

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kamilpajak/triage/internal/analysis"
	"github.com/kamilpajak/triage/internal/classify"
	"github.com/kamilpajak/triage/internal/config"
	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/internal/logging"
	"github.com/kamilpajak/triage/internal/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
	logFormat  string
	sequential bool
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Classify customer feedback by sentiment and intent",
	Long: `Triage reads feedback one line at a time, scores its sentiment and
intent with hosted inference models, and assigns it to a feedback bucket
(complaint, bug_report, refund/cancellation, suggestion, praise, question, other).

Requires HF_TOKEN to be set (environment, .env file, or --config).`,
	Args:          cobra.NoArgs,
	RunE:          runInteractive,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show progress and debug logs")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&sequential, "sequential", false, "Call the sentiment model before the intent model instead of in parallel")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// app holds everything built from the configuration at startup.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline *analysis.Pipeline
}

// newApp loads configuration and wires the pipeline. A missing credential
// fails here, before any input is read.
func newApp(emitter progress.Emitter) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, logFormat)
	if err != nil {
		return nil, &config.ConfigError{Field: "log_level", Reason: err.Error()}
	}

	client := inference.NewClient(cfg, logger)
	classifier := classify.New(client, cfg)

	return &app{
		cfg:    cfg,
		logger: logger,
		pipeline: analysis.New(analysis.Params{
			Sentiment:  classifier,
			Intents:    classifier,
			Sequential: cfg.Sequential || sequential,
			Emitter:    emitter,
			Logger:     logger,
		}),
	}, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := newApp(progress.ForStderr(verbose))
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "Enter feedback, one line at a time (Ctrl-D or Ctrl-C to quit).")

	l := &loop{
		analyzer: a.pipeline,
		in:       cmd.InOrStdin(),
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		prompt:   "> ",
		logger:   a.logger,
	}
	return l.run(ctx)
}

// contextOrBackground guards against commands executed without a context.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
