package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcanaland/mtgcalc/internal/booster"
	"github.com/arcanaland/mtgcalc/internal/config"
	"github.com/arcanaland/mtgcalc/internal/scryfall"
)

var (
	logger = zap.NewNop()
	cfg    = config.Default()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mtgcalc",
	Short: "Magic: The Gathering set review and booster tools",
	Long: `mtgcalc fetches card data from Scryfall and works with it.
It turns community set reviews into color-grouped rating cheat sheets,
simulates Play Booster packs and estimates the value of a booster box.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		logger = l

		configPath, _ := cmd.Flags().GetString("config")
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = c

		logger.Debug("Loaded config",
			zap.String("base_url", cfg.API.BaseURL),
			zap.String("rate_limit", cfg.API.RateLimit))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/mtgcalc/config.toml)")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().Uint64("seed", 0, "Random seed for pack simulation (0 picks one)")

	RootCmd.AddCommand(setsCmd)
	RootCmd.AddCommand(cheatsheetCmd)
	RootCmd.AddCommand(packCmd)
	RootCmd.AddCommand(boxValueCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// newLogger builds a console logger on stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.DisableStacktrace = true
	zc.Sampling = nil
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

// newClient builds a Scryfall client from the loaded config
func newClient() (*scryfall.Client, error) {
	interval, err := cfg.API.RateLimitInterval()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.API.Timeout()
	if err != nil {
		return nil, err
	}

	return scryfall.NewClient(
		scryfall.WithBaseURL(cfg.API.BaseURL),
		scryfall.WithUserAgent(cfg.API.UserAgent),
		scryfall.WithRateLimit(interval),
		scryfall.WithTimeout(timeout),
		scryfall.WithUnique(cfg.API.Unique),
		scryfall.WithLogger(logger.Named("scryfall")),
	), nil
}

// newSimulator builds a Play Booster simulator seeded from --seed
func newSimulator(cmd *cobra.Command) (*booster.Simulator, error) {
	seed, _ := cmd.Flags().GetUint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("Simulating packs", zap.Uint64("seed", seed))

	layout := booster.PlayBooster()
	layout.MythicChance = cfg.Booster.MythicChance
	return booster.New(layout, booster.NewRand(seed))
}

// loadBuckets fetches a set and groups its cards by rarity
func loadBuckets(cmd *cobra.Command, setCode string) (booster.Buckets, error) {
	if setCode == "" {
		return nil, fmt.Errorf("--set-code is required")
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	cards, err := client.SearchSetCards(commandContext(cmd), setCode)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched set", zap.String("set", setCode), zap.Int("cards", len(cards)))

	return booster.GroupByRarity(cards), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
