// encstore stores files encrypted at rest with AES-128-CBC and retrieves
// them by stored name.
//
// Usage:
//
//	encstore [global flags] put FILE [--name NAME]
//	encstore [global flags] get STORED_NAME [-o OUT]
//	encstore [global flags] list
//	encstore [global flags] check
//
// The key is read from ENCSTORE_KEY_HEX (or AES_KEY_HEX) as 32 hex
// characters. A .env file in the working directory is loaded first.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bitfsorg/encstore-go/config"
	"github.com/bitfsorg/encstore-go/vault"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are accepted before the command name.
type globalFlags struct {
	configPath string
	dataDir    string
	backend    string
	envFile    string
	logLevel   string
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	var g globalFlags

	flagSet := pflag.NewFlagSet("encstore", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&g.configPath, "config", "", "config file (default: <data-dir>/config)")
	flagSet.StringVar(&g.dataDir, "data-dir", "", "data directory (default: ~/.encstore)")
	flagSet.StringVar(&g.backend, "backend", "", `blob backend: "file" or "bolt"`)
	flagSet.StringVar(&g.envFile, "env-file", ".env", "dotenv file merged into the environment")
	flagSet.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return errors.New("no command given")
	}
	cmd, cmdArgs := rest[0], rest[1:]
	if cmd == "help" {
		printHelp(stderr, flagSet)
		return nil
	}

	if err := config.LoadEnvFile(g.envFile); err != nil {
		return err
	}

	// The key is checked before anything touches the data directory.
	key, err := config.LoadKey(getenv)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(g, getenv)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	v, err := vault.New(cfg, key, logger)
	if err != nil {
		return err
	}
	defer v.Close()

	switch cmd {
	case "put":
		err = putCmd(v, cmdArgs, stdout, stderr)
	case "get":
		err = getCmd(v, cmdArgs, stdout, stderr)
	case "list", "ls":
		err = listCmd(v, cmdArgs, stdout)
	case "check":
		err = checkCmd(v, cmdArgs, stdout)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

// loadConfig layers defaults, the config file, environment and flags, in
// increasing precedence.
func loadConfig(g globalFlags, getenv func(string) string) (config.Config, error) {
	dataDir := g.dataDir
	if dataDir == "" {
		dataDir = getenv(config.EnvDataDir)
	}
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	path := g.configPath
	explicit := path != ""
	if !explicit {
		path = config.ConfigPath(dataDir)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, config.ErrConfigNotFound) {
			return cfg, err
		}
		cfg = config.DefaultConfig()
	}
	// A config file found inside the data directory cannot move it.
	// An explicit file may, below env and flags.
	if !explicit {
		cfg.DataDir = dataDir
	}

	cfg = config.ApplyEnv(cfg, getenv)
	if g.dataDir != "" {
		cfg.DataDir = g.dataDir
	}
	if g.backend != "" {
		cfg.Backend = g.backend
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds a text slog logger writing to cfg.LogFile, or to
// stderr when no log file is configured.
func newLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	out := stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: config.SlogLevel(cfg.LogLevel),
	}))
	return logger, closeFn, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `encstore: store files encrypted at rest.

Usage:
  encstore [flags] put FILE [--name NAME]    encrypt and store FILE
  encstore [flags] get STORED [-o OUT]       decrypt STORED to OUT or its original name
  encstore [flags] list                      list stored files
  encstore [flags] check                     report missing or malformed blobs

The 128-bit key is read from ENCSTORE_KEY_HEX (or AES_KEY_HEX) as 32 hex
characters. encstore refuses to start without it.

Flags:
`)
	flagSet.PrintDefaults()
}
