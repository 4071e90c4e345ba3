// Command auroradispatch is the diagnostic CLI for the main-thread
// dispatch subsystem. It inspects the backend catalogue, probes the
// environment, and reports the effective configuration; no host bridge is
// ever installed here, so outside a host the direct fallback is what
// resolution reports.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/charmbracelet/lipgloss"

	"github.com/loonghao/auroraview-sub000/internal/config"
	"github.com/loonghao/auroraview-sub000/internal/env"
	"github.com/loonghao/auroraview-sub000/internal/envvar"
	"github.com/loonghao/auroraview-sub000/internal/logger"
	"github.com/loonghao/auroraview-sub000/internal/xfs"
	"github.com/loonghao/auroraview-sub000/mainthread"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	defaultConfig := path.Join(config.DefaultConfigPath(), "config.yaml")
	if p := os.Getenv(envvar.AuroraViewConfig); p != "" {
		defaultConfig = p
	}
	flagConfigPath := flag.String("config", defaultConfig, "Path to config file")
	flag.Parse()

	environment := env.FromEnv()
	slog.SetDefault(logger.New(environment, logger.WithLevel(logger.LevelFromEnv())))

	configPath := xfs.ExpandTilde(*flagConfigPath)
	cfg := loadConfig(configPath)

	d := mainthread.New()
	d.ApplyConfig(cfg)

	switch flag.Arg(0) {
	case "list", "":
		runList(d)
	case "doctor":
		runDoctor(d, cfg)
	case "env":
		runEnv(environment, cfg, configPath)
	case "watch":
		runWatch(d, configPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want list, doctor, env, or watch)\n", flag.Arg(0))
		os.Exit(2)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadAndValidate(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Config file unreadable; using defaults", "path", path, "error", err)
		}
		return config.Default()
	}
	return cfg
}

func runList(d *mainthread.Dispatcher) {
	fmt.Println(titleStyle.Render("Backend catalogue"))
	for _, s := range d.Registry().List() {
		avail := errorStyle.Render("unavailable")
		if s.Available {
			avail = okStyle.Render("available")
		}
		fmt.Printf("  %4d  %-10s %s\n", s.Priority, s.Name, avail)
	}
}

func runDoctor(d *mainthread.Dispatcher, cfg *config.Config) {
	fmt.Println(titleStyle.Render("Dispatch doctor"))

	if name, ok := d.Registry().CurrentHostName(); ok {
		fmt.Println("  host environment:", okStyle.Render(name))
	} else {
		fmt.Println("  host environment:", dimStyle.Render("none detected"))
	}

	b, err := d.Registry().Resolve()
	if err != nil {
		fmt.Println("  resolution:", errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	fmt.Println("  resolved backend:", okStyle.Render(b.Name()))

	v, err := d.RunOnMainSyncTimeout(func() (any, error) { return "pong", nil }, cfg.SyncTimeout())
	if err != nil {
		fmt.Println("  sync probe:", errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	fmt.Printf("  sync probe: %s (%v within %s)\n", okStyle.Render("ok"), v, cfg.SyncTimeout())
}

// runWatch follows the config file and re-applies the dispatch section on
// every change, reprinting the catalogue so override effects are visible.
func runWatch(d *mainthread.Dispatcher, configPath string) {
	watcher, err := config.NewWatcher(configPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}
		d.ApplyConfig(cfg)
		slog.Info("Config reloaded", "config", configPath)
		runList(d)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
	defer watcher.Close()

	slog.Info("Watching config", "config", configPath)
	runList(d)
	select {}
}

func runEnv(environment env.Environment, cfg *config.Config, configPath string) {
	fmt.Println(titleStyle.Render("Effective environment"))
	fmt.Println("  deployment:", string(environment))
	fmt.Println("  config file:", configPath)

	if override := os.Getenv(envvar.AuroraViewMainThreadBackend); override != "" {
		fmt.Println("  backend override:", warnStyle.Render(override), dimStyle.Render("(from "+envvar.AuroraViewMainThreadBackend+")"))
	} else if cfg.Dispatch.Backend != "" {
		fmt.Println("  backend override:", warnStyle.Render(cfg.Dispatch.Backend), dimStyle.Render("(from config)"))
	} else {
		fmt.Println("  backend override:", dimStyle.Render("none"))
	}
	fmt.Println("  sync timeout:", cfg.SyncTimeout())
	for name, p := range cfg.Dispatch.Priorities {
		fmt.Printf("  priority override: %s=%d\n", name, p)
	}
}
