package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/promptforge/backdrop/background"
	"github.com/promptforge/backdrop/config"
	"github.com/promptforge/backdrop/content"
)

// flagValues holds the raw persistent flags, applied over file and env only when set
type flagValues struct {
	configPath    string
	route         string
	reducedMotion bool
	seed          uint64
	catalog       string
	fps           int
	metricsAddr   string
	debug         bool
	logDir        string
}

func newRootCmd() *cobra.Command {
	fv := &flagValues{}

	root := &cobra.Command{
		Use:   "backdrop",
		Short: "Animated terminal background of drifting tokens and typewriter quotes",
		Long: `backdrop renders a layered ambient background in the terminal:
a static geometric layer, a drifting pool of glyph tokens with rare glitch bursts,
and a narrative layer that types short quotes into the screen corners.

Keys: q/Esc/Ctrl-C quit, m toggles reduced motion, d toggles the dashboard route,
p pauses the animation clock.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, fv)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "config file (.toml, .yaml, .json)")
	pf.StringVar(&fv.route, "route", "/", "route the background is mounted on")
	pf.BoolVar(&fv.reducedMotion, "reduced-motion", false, "render a static background")
	pf.Uint64Var(&fv.seed, "seed", 0, "random seed, 0 picks one")
	pf.StringVar(&fv.catalog, "catalog", "", "token and quote catalog file (.toml, .yaml, .json)")
	pf.IntVar(&fv.fps, "fps", 60, "frame rate of the render loop")
	pf.StringVar(&fv.metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address")
	pf.BoolVar(&fv.debug, "debug", false, "write debug logs")
	pf.StringVar(&fv.logDir, "log-dir", "logs", "directory for debug logs")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the background (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCommand(cmd, fv)
			},
		},
		newSettingsCmd(fv),
		newCatalogCmd(),
	)
	return root
}

// resolveConfig layers flags over config file and environment
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config.Config, error) {
	cfg, err := config.Resolve(fv.configPath)
	if err != nil {
		return cfg, err
	}
	cfg = flagOverlay(cmd, fv)(cfg)
	return cfg, cfg.Validate()
}

// flagOverlay returns a func that reapplies every flag set on the command line,
// so config reloads keep them on top of the file and environment
func flagOverlay(cmd *cobra.Command, fv *flagValues) func(config.Config) config.Config {
	flags := cmd.Flags()
	changed := func(name string) bool { return flags.Changed(name) }
	v := *fv
	return func(cfg config.Config) config.Config {
		if changed("route") {
			cfg.Route = v.route
		}
		if changed("reduced-motion") {
			cfg.ReducedMotion = v.reducedMotion
		}
		if changed("seed") {
			cfg.Seed = v.seed
		}
		if changed("catalog") {
			cfg.CatalogPath = v.catalog
		}
		if changed("fps") {
			cfg.FPS = v.fps
		}
		if changed("metrics-addr") {
			cfg.MetricsAddr = v.metricsAddr
		}
		if changed("debug") {
			cfg.Debug = v.debug
		}
		if changed("log-dir") {
			cfg.LogDir = v.logDir
		}
		return cfg
	}
}

func runCommand(cmd *cobra.Command, fv *flagValues) error {
	cfg, err := resolveConfig(cmd, fv)
	if err != nil {
		return err
	}

	logger, logFile, err := setupLogging(cfg.Debug, cfg.LogDir)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	return runBackdrop(cmd.Context(), cfg, fv.configPath, flagOverlay(cmd, fv), screen, logger)
}

type settingsReport struct {
	Environment background.Environment        `yaml:"environment"`
	Settings    background.PerformanceSettings `yaml:"settings"`
}

func newSettingsCmd(fv *flagValues) *cobra.Command {
	var columns int
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the performance settings derived for the current route and viewport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			env := background.Environment{
				Route:         cfg.Route,
				ReducedMotion: cfg.ReducedMotion,
				Mobile:        background.IsMobileWidth(columns),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(settingsReport{Environment: env, Settings: background.Derive(env)})
		},
	}
	cmd.Flags().IntVar(&columns, "columns", 160, "terminal width in columns")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	catalog := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect token and quote catalogs",
	}
	catalog.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(args[0])
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d tokens, %d quotes)\n", args[0], len(c.Tokens), len(c.Quotes))
			return nil
		},
	})
	return catalog
}
