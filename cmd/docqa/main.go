package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"docqa/pkg/ai"
	_ "docqa/pkg/ai/providers"
	"docqa/pkg/chat"
	"docqa/pkg/config"
	"docqa/pkg/ingest"
	"docqa/pkg/logging"
	"docqa/pkg/qa"
	"docqa/pkg/ui"
	"docqa/pkg/version"

	tea "charm.land/bubbletea/v2"
)

const appName = "docqa"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "ask" {
		return runAsk(args[1:], stdin, stdout, stderr)
	}
	return runTUI(args, stdout, stderr)
}

type options struct {
	configPath  string
	docPath     string
	showVersion bool
}

func parseFlags(name string, args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", config.GetConfigPath(), "path to the config file")
	fs.StringVar(&opts.docPath, "doc", "", "document to load (.txt, .md or .pdf)")
	fs.BoolVar(&opts.showVersion, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

// flagExitCode maps a flag parsing error to an exit status.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

// loadConfig reads the config file and overlays .env and the environment.
func loadConfig(path string, getenv func(string) string) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg = config.ApplyEnv(cfg, getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newGateway(cfg config.Config) (*qa.Gateway, error) {
	provider, err := ai.GetProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.LLMProvider, err)
	}
	return qa.NewGateway(provider,
		qa.WithModel(ai.ResolveModel(cfg)),
		qa.WithTemperature(cfg.ActiveTemperature()),
	), nil
}

func runTUI(args []string, stdout, stderr io.Writer) int {
	opts, _, err := parseFlags(appName, args, stderr)
	if err != nil {
		return flagExitCode(err)
	}
	if opts.showVersion {
		printVersion(stdout)
		return 0
	}

	cfg, err := loadConfig(opts.configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(stderr, "Set your API key in %s or in the environment.\n", opts.configPath)
		return 1
	}
	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		slog.Error("app_provider_failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var watcher *ingest.Watcher
	if cfg.WatchDocument {
		watcher, err = ingest.NewWatcher()
		if err != nil {
			slog.Warn("app_watcher_failed", "error", err)
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := chat.NewSession()
	slog.Info("app_start",
		"version", version.Version,
		"provider", cfg.LLMProvider,
		"model", ai.ResolveModel(cfg),
		"chat_session", session.ID(),
	)

	model := ui.NewModel(ui.Options{
		Config:      cfg,
		ConfigPath:  opts.configPath,
		Session:     session,
		Answerer:    gateway,
		Extractor:   ingest.NewExtractor(cfg.MaxFileBytes()),
		Watcher:     watcher,
		ModelName:   ai.ResolveModel(cfg),
		InitialPath: opts.docPath,
		Context:     ctx,
	})

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		slog.Error("app_exit_error", "error", err)
		fmt.Fprintf(stderr, "Error running program: %v\n", err)
		return 1
	}
	slog.Info("app_exit")
	return 0
}
