package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/Lucasmercado101/mecamatic/pkg/ttyguard"

	"github.com/Lucasmercado101/mecamatic/internal/datasource"
	"github.com/Lucasmercado101/mecamatic/pkg/bridge"
	"github.com/Lucasmercado101/mecamatic/pkg/config"
	"github.com/Lucasmercado101/mecamatic/pkg/debug"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
	"github.com/Lucasmercado101/mecamatic/pkg/metrics"
	"github.com/Lucasmercado101/mecamatic/pkg/notify"
	"github.com/Lucasmercado101/mecamatic/pkg/shell"
	"github.com/Lucasmercado101/mecamatic/pkg/ui"
	"github.com/Lucasmercado101/mecamatic/pkg/version"

	tea "github.com/charmbracelet/bubbletea"
)

type options struct {
	help        bool
	version     bool
	debug       bool
	serve       bool
	lessonsDir  string
	profilesDir string
	configPath  string
	packOut     string
	profile     string
}

func parseFlags(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("mecamatic", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging to stderr")
	fs.BoolVar(&o.serve, "serve", false, "Serve the front-end bridge on stdin/stdout instead of the TUI")
	fs.StringVar(&o.lessonsDir, "lessons", "", "Lessons folder or .db bundle (overrides config and "+config.EnvLessonsDir+")")
	fs.StringVar(&o.profilesDir, "profiles", "", "Profiles folder (overrides config and "+config.EnvProfilesDir+")")
	fs.StringVar(&o.configPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	fs.StringVar(&o.packOut, "pack", "", "Pack the lessons folder into a SQLite bundle at this path and exit")
	fs.StringVar(&o.profile, "profile", "", "Profile to open at startup")
	err := fs.Parse(args)
	return o, fs, err
}

// resolveConfig layers the config file, the environment and the flags, in
// increasing precedence.
func resolveConfig(o options, getenv func(string) string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(config.ResolvePath(o.configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(getenv)
	if o.lessonsDir != "" {
		cfg.Lessons.Dir = config.ResolvePath(o.lessonsDir)
	}
	if o.profilesDir != "" {
		cfg.Profiles.Dir = config.ResolvePath(o.profilesDir)
	}
	if o.profile != "" {
		cfg.UI.DefaultProfile = o.profile
	}
	return cfg, nil
}

func main() {
	o, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if o.help {
		fmt.Println("Usage: mecamatic [options]")
		fmt.Println("\nA typing tutor: pick a profile and walk the exercise sequence.")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		os.Exit(0)
	}

	if o.version {
		fmt.Printf("mecamatic %s\n", version.String())
		os.Exit(0)
	}

	if o.debug {
		debug.SetEnabled(true)
	}

	cfg, err := resolveConfig(o, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.packOut != "" {
		if err := pack(ctx, cfg.Lessons.Dir, config.ResolvePath(o.packOut), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error packing lessons: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if o.serve {
		err := serve(ctx, cfg)
		dumpMetrics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error serving bridge: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sh, err := shell.Open(ctx, shell.Options{Config: cfg, Notifier: notify.Log{}, StateDir: config.StateDir()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening lessons: %v\n", err)
		os.Exit(1)
	}
	defer sh.Close()

	opts := []ui.Option{
		ui.WithContext(ctx),
		ui.WithProfile(cfg.UI.DefaultProfile),
		ui.WithSplitRatio(cfg.ClampedSplitRatio()),
	}
	if cfg.WatchEnabled() {
		changes := make(chan struct{}, 1)
		w, err := sh.Watch(ctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		} else {
			defer w.Stop()
			opts = append(opts, ui.WithLessonChanges(changes))
		}
	}

	err = runTUIProgram(ui.NewModel(sh, opts...))
	dumpMetrics()
	if err != nil {
		fmt.Printf("Error running mecamatic: %v\n", err)
		os.Exit(1)
	}
}

// dumpMetrics writes the collected timings to the debug log.
func dumpMetrics() {
	if !debug.Enabled() {
		return
	}
	debug.Dump("timings", metrics.AllTimingStats())
	debug.Dump("counters", metrics.CounterStats())
}

// serve runs the front-end bridge on stdio until stdin closes or ctx ends.
// Confirmations are asked on the controlling terminal when there is one.
func serve(ctx context.Context, cfg config.Config) error {
	var notifier notify.Notifier = notify.Log{Logger: log.New(os.Stderr, "", log.LstdFlags)}
	if d := notify.NewDialog(); d != nil {
		notifier = d
	}

	sh, err := shell.Open(ctx, shell.Options{Config: cfg, Notifier: notifier})
	if err != nil {
		return err
	}
	defer sh.Close()

	srv := bridge.NewServer(sh)
	if cfg.WatchEnabled() {
		stopWatch, err := srv.WatchLessons(ctx)
		if err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		} else {
			defer stopWatch()
		}
	}

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pack writes the lessons folder into a SQLite bundle and checks the result
// against the folder.
func pack(ctx context.Context, lessonsDir, out string, w io.Writer) error {
	src := store.NewDirStore(lessonsDir)
	n, err := datasource.WriteBundle(ctx, src, out)
	if err != nil {
		return err
	}

	bundle, err := datasource.OpenSQLite(out)
	if err != nil {
		return fmt.Errorf("reopening bundle: %w", err)
	}
	defer bundle.Close()

	diff, err := datasource.CompareStores(ctx, src, bundle, lessonsDir, out, datasource.DefaultDiffOptions())
	if err != nil {
		return err
	}
	if diff.HasInconsistencies() {
		return errors.New(diff.Summary())
	}
	fmt.Fprintf(w, "Packed %d exercises into %s\n", n, out)
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MECAMATIC_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MECAMATIC_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
