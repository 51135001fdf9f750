package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/logging"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/selftest"
)

func main() {
	configPath := flag.String("config", "", "optional TOML file with search budgets")
	verbose := flag.Bool("v", false, "log search progress")
	flag.Parse()

	log.Printf("ntcrypt-go version: %s", ntcrypt.LibraryVersion())

	cfg := ntcrypt.DefaultConfig()
	if *configPath != "" {
		loaded, err := ntcrypt.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := selftest.Run(ctx, ntcrypt.WithConfig(cfg), ntcrypt.WithLogger(logger))
	if failed := report.Failed(); len(failed) > 0 {
		fmt.Printf("selftest: %d of %d checks failed\n", len(failed), len(report.Results))
		stop()
		os.Exit(1)
	}
	fmt.Printf("selftest: all %d checks passed\n", len(report.Results))
}
