package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/naveenspark/teamwork/internal/browser"
	"github.com/naveenspark/teamwork/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	command := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}
	switch command {
	case "version":
		fmt.Fprintln(stdout, "teamwork "+version)
		return nil
	case "", "whoami", "logout", "docs", "help":
	default:
		return fmt.Errorf("unknown command %q (run `teamwork help`)", command)
	}

	var flags config.Flags
	var startPath string
	flagSet := pflag.NewFlagSet("teamwork", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flags.AddFlags(flagSet)
	flagSet.StringVar(&startPath, "path", "/", "screen to open first: /login, /register or /dashboard")
	showHelp := flagSet.BoolP("help", "h", false, "show help")
	showVersion := flagSet.BoolP("version", "v", false, "show version")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil
		}
		return err
	}
	switch {
	case *showVersion:
		fmt.Fprintln(stdout, "teamwork "+version)
		return nil
	case *showHelp || command == "help":
		printHelp(stdout, flagSet)
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := loadConfig(flagSet, &flags)
	if err != nil {
		return err
	}
	if command == "docs" {
		return openDocs(cfg.DocsURL, stdout)
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("starting", "version", version, "command", command, "mode", cfg.Mode, "storage", cfg.Storage.Backend)

	ctx := context.Background()
	kv, closeKV, err := openKV(ctx, cfg.Storage)
	if err != nil {
		logger.Error("open session storage", "backend", cfg.Storage.Backend, "error", err)
		return err
	}
	defer closeKV()

	switch command {
	case "whoami":
		c, _ := newContainer(cfg, kv, logger, 0)
		return runWhoami(ctx, c, stdout)
	case "logout":
		c, _ := newContainer(cfg, kv, logger, 0)
		return runLogout(ctx, c, stdout)
	}

	c, api := newContainer(cfg, kv, logger, cfg.RestoreDelay)
	return runTUI(c, api, cfg, logger, startPath)
}

// loadConfig layers defaults, the config file, .env, the environment and
// explicit flags, in that order.
func loadConfig(flagSet *pflag.FlagSet, flags *config.Flags) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	cfg.ApplyFlags(flagSet, flags)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openDocs(url string, stdout io.Writer) error {
	if err := browser.Open(url); err != nil {
		fmt.Fprintf(stdout, "Could not open browser. Visit this URL manually:\n  %s\n", url)
		return nil
	}
	fmt.Fprintf(stdout, "Opened %s\n", url)
	return nil
}
