package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/league-scoreboard/internal/app"
	"github.com/riskibarqy/league-scoreboard/internal/config"
	"github.com/riskibarqy/league-scoreboard/internal/interfaces/cli"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	assumeYes := flag.Bool("yes", false, "skip confirmation prompts for delete and clear")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-yes] <command> [args]\n", os.Args[0])
		cli.Usage(os.Stderr)
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: os.Stderr})
	logging.SetDefault(logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	c := cli.New(application.Scoreboard, cli.Options{In: os.Stdin, Out: os.Stdout, AssumeYes: *assumeYes})
	if err := c.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			flag.Usage()
			return 2
		}
		return 1
	}
	return 0
}
