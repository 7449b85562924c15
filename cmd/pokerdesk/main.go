// Command pokerdesk serves the poker table views and talks to the tables
// backend from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/okian/pokerdesk/internal/config"
	"github.com/okian/pokerdesk/pkg/logger"
	"github.com/okian/pokerdesk/pkg/metrics"
)

// version is set by ldflags during build
var version = "dev"

// CLI is the root command tree.
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Force debug logging regardless of log_level"`

	Serve  ServeCmd  `cmd:"" help:"Serve the home and table views over HTTP"`
	Tables TablesCmd `cmd:"" help:"Query and create tables on the backend"`
	Assist AssistCmd `cmd:"" help:"Send a raw JSON payload to the assist endpoint"`
}

// environment carries what every command needs once flags are parsed.
type environment struct {
	ctx context.Context
	cfg *config.Config
	log logger.Logger
	in  io.Reader
	out io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pokerdesk: "+err.Error())
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
	)

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("pokerdesk"),
		kong.Description("Poker table front end and backend client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	log := logger.Get()
	level := cfg.LogLevel
	if cli.Debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	return kctx.Run(&environment{ctx: ctx, cfg: cfg, log: log, in: in, out: out})
}
