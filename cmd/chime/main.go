package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/chime/internal/cliconfig"
	"github.com/bft-labs/chime/internal/metrics"
	logAdapter "github.com/bft-labs/chime/pkg/log"
	"github.com/bft-labs/chime/pkg/chime"
	"github.com/bft-labs/chime/plugins/soundwatcher"
)

const helpDescription = `
Plays a sound or a playlist when a reminder's time of day arrives.

Highlights:
  - Reads reminders from a CSV, YAML or TOML schedule.
  - Each reminder fires once per run, or once per day with --reset-daily.
  - Falls back through several audio players until one works.
  - Configure via file, env (CHIME_*), or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  chime --schedule reminders.csv
  chime --config $HOME/.chime/config.toml --reset-daily --metrics-addr :9464
  chime check --schedule reminders.yaml
`)

const (
	shutdownGrace       = 5 * time.Second
	metricsReadTimeout  = 5 * time.Second
	metricsShutdownWait = 2 * time.Second
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return chime.Version + "-dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath, envFile string

	log := cliconfig.Logger(cfg.LogLevel)

	// resolve applies .env, config file and CHIME_* variables under the
	// flags the user set explicitly, then validates.
	resolve := func(cmd *cobra.Command) error {
		if err := cliconfig.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}

		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		} else if cfgPath != "" {
			return fmt.Errorf("config file %s not found", cfgPath)
		}

		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return fmt.Errorf("environment: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		log = cliconfig.Logger(cfg.LogLevel)
		log.Debug().Interface("config", cfg).Msg("configuration")
		return nil
	}

	root := &cobra.Command{
		Use:           "chime",
		Short:         "Time-of-day reminder player",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, log)
		},
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Load the schedule and print what would play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd); err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), cfg, log)
		},
	}
	root.AddCommand(check)

	// Flags
	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.chime/config.toml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading CHIME_* variables")
	flags.StringVar(&cfg.ScheduleFile, "schedule", cfg.ScheduleFile, "schedule file (.csv, .yaml or .toml)")

	flags.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "clock poll interval (at most 1s)")
	flags.DurationVar(&cfg.ActiveStatusDuration, "active-duration", cfg.ActiveStatusDuration, "how long a fired reminder shows as ACTIVE")
	flags.DurationVar(&cfg.SingleTrackTimeout, "single-timeout", cfg.SingleTrackTimeout, "maximum playback time of a single sound")
	flags.DurationVar(&cfg.PlaylistTrackTimeout, "track-timeout", cfg.PlaylistTrackTimeout, "maximum playback time of each playlist track")
	flags.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "playback requests that may wait behind the one playing")

	flags.BoolVar(&cfg.ResetDaily, "reset-daily", cfg.ResetDaily, "re-arm every reminder when the date changes")
	flags.BoolVar(&cfg.WatchSounds, "watch-sounds", cfg.WatchSounds, "report referenced sound files that go missing")

	flags.StringVar(&cfg.PrimaryPlayer, "primary-player", cfg.PrimaryPlayer, "primary player command; the sound path is appended")
	flags.StringVar(&cfg.SecondaryPlayer, "secondary-player", cfg.SecondaryPlayer, "secondary player command; the sound path is appended")

	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (disabled when empty)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("chime")
		os.Exit(1)
	}
}

// libConfig converts the CLI configuration to the library configuration.
func libConfig(cfg cliconfig.Config) chime.Config {
	return chime.Config{
		ScheduleFile:         cfg.ScheduleFile,
		PollInterval:         cfg.PollInterval,
		ActiveStatusDuration: cfg.ActiveStatusDuration,
		SingleTrackTimeout:   cfg.SingleTrackTimeout,
		PlaylistTrackTimeout: cfg.PlaylistTrackTimeout,
		QueueSize:            cfg.QueueSize,
		ResetDaily:           cfg.ResetDaily,
		Playlists:            cfg.Playlists,
		PrimaryPlayer:        cfg.PrimaryArgv(),
		SecondaryPlayer:      cfg.SecondaryArgv(),
	}
}

// run starts monitoring and blocks until SIGINT/SIGTERM or a metrics
// server failure.
func run(parent context.Context, cfg cliconfig.Config, log zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}

	opts := []chime.Option{chime.WithLogger(logAdapter.NewZerologAdapterWithLogger(log))}
	if cfg.WatchSounds {
		opts = append(opts, soundwatcher.WithDefaultSoundWatcher())
	}

	c, err := chime.New(libConfig(cfg), opts...)
	if err != nil {
		return fmt.Errorf("create chime: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if err := c.Start(gctx); err != nil {
		_ = c.Close(context.Background())
		return fmt.Errorf("start chime: %w", err)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: metricsReadTimeout,
		}

		g.Go(func() error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownWait)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			log.Info().Msg("received signal, stopping...")
		}
		return nil
	})

	runErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := c.Close(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Msg("playback still running at shutdown, stopped it")
		} else {
			log.Error().Err(err).Msg("shutdown")
		}
	}

	return runErr
}

// runCheck loads the schedule and prints each reminder with what it would play.
func runCheck(w io.Writer, cfg cliconfig.Config, log zerolog.Logger) error {
	c, err := chime.New(libConfig(cfg), chime.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)))
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	entries := c.Entries()
	fmt.Fprintf(w, "%s: %d reminder(s)\n", cfg.ScheduleFile, len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-8s  %-24s  %s\n", e.ID, e.Name, describeSound(c, e))
	}

	if dropped := c.Dropped(); len(dropped) > 0 {
		fmt.Fprintf(w, "dropped %d row(s):\n", len(dropped))
		for _, d := range dropped {
			fmt.Fprintf(w, "  %v\n", d)
		}
	}

	missing := 0
	for _, ref := range c.SoundRefs() {
		if !c.SoundExists(ref) {
			missing++
			fmt.Fprintf(w, "missing sound: %s\n", ref)
		}
	}
	if missing == 0 {
		fmt.Fprintln(w, "all referenced sounds found")
	}
	return nil
}

func describeSound(c *chime.Chime, e chime.ReminderEntry) string {
	switch {
	case e.PlaylistRef != "":
		p, _ := c.Playlist(e.PlaylistRef)
		return fmt.Sprintf("playlist %s (%d tracks)", p.Name, len(p.Tracks))
	case e.SoundRef != "":
		return e.SoundRef
	default:
		return "(no sound)"
	}
}
