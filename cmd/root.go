package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"retailkpi/internal/config"
	"retailkpi/internal/observability"
	"retailkpi/internal/scrape"
	"retailkpi/internal/ui"
	"retailkpi/pkg/models"
)

// viperKey is the flag annotation naming the configuration key a flag
// overrides.
const viperKey = "retailkpi_viper_key"

// skipConfig marks commands that run without loading configuration.
const skipConfig = "retailkpi_skip_config"

// listingScraper runs a scrape; satisfied by *scrape.Scraper.
type listingScraper interface {
	Run(ctx context.Context, cfg models.ScrapeConf) (*scrape.Result, error)
}

// App carries what every command needs once the configuration is loaded.
type App struct {
	Config     *models.Config
	ConfigFile string
	Logger     *zap.Logger

	// Prompter asks the review questions.
	Prompter ui.Prompter
	// NewScraper builds the listing scraper.
	NewScraper func(cfg models.ScrapeConf, logger *zap.Logger) (listingScraper, error)

	configPath string
	noColor    bool
}

func defaultApp() *App {
	return &App{
		Prompter: ui.SurveyPrompter{},
		NewScraper: func(cfg models.ScrapeConf, logger *zap.Logger) (listingScraper, error) {
			return scrape.NewScraper(cfg, logger)
		},
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultApp())
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "retailkpi",
		Short: "Clean retail tables and compute GMROI and markdown",
		Long: `retailkpi reconciles a product master, daily inventory snapshots and sales
transactions, fills the gaps between them and reports GMROI and markdown
per category. It can also scrape property listings for a price summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "config file (default ./"+config.LocalConfigFile+" or "+config.GetConfigFile()+")")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.BoolVar(&app.noColor, "no-color", false, "disable colored output")
	bindFlag(pf, "log-level", "logging.level")
	bindFlag(pf, "log-format", "logging.format")

	rootCmd.AddCommand(
		newRunCmd(app),
		newCleanCmd(app),
		newMatchCmd(app),
		newReviewCmd(app),
		newScrapeCmd(app),
		newAllCmd(app),
		newVersionCmd(),
	)
	return rootCmd
}

// bindFlag ties a flag to a configuration key; a flag set on the command
// line wins over the file and the environment.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, viperKey, []string{key})
}

func (app *App) setup(cmd *cobra.Command) error {
	ui.Output = cmd.OutOrStdout()
	if app.noColor {
		ui.SetColor(false)
	}
	if _, ok := cmd.Annotations[skipConfig]; ok {
		return nil
	}

	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[viperKey]; ok && bindErr == nil {
			bindErr = v.BindPFlag(keys[0], f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, file, err := config.Load(v, app.configPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if !cfg.Output.Color {
		ui.SetColor(false)
	}

	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Service: "retailkpi",
		Version: Version,
	})
	if err != nil {
		return err
	}
	if file != "" {
		logger.Debug("configuration loaded", zap.String("path", file))
	}

	app.Config = cfg
	app.ConfigFile = file
	app.Logger = logger
	cmd.SetContext(observability.WithLogger(cmd.Context(), logger))
	return nil
}

// useColor reports whether report tables are highlighted.
func (app *App) useColor() bool {
	return ui.ColorEnabled() && !app.noColor && (app.Config == nil || app.Config.Output.Color)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		ui.Output = os.Stderr
		ui.ShowError(err)
		stop()
		os.Exit(1)
	}
}
