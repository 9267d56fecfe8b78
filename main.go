package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/blackjack/config"
	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/logger"
	"github.com/lazharichir/blackjack/server"
	"github.com/lazharichir/blackjack/shell"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeServer:
		s := server.NewServer(ctx, cfg.Rules(), cfg.DeckSeed)
		if err := s.Start(cfg.Addr); err != nil {
			logger.Log.Fatal("server failed", zap.Error(err))
		}

	default:
		if err := playConsole(ctx, cfg); err != nil {
			logger.Log.Error("game aborted", zap.Error(err))
			os.Exit(1)
		}
	}
}

func playConsole(ctx context.Context, cfg config.Config) error {
	fmt.Println("Welcome to Blackjack!")

	console := shell.NewConsole(os.Stdin, os.Stdout, cfg.Debug)
	session := domain.NewSession(cfg.Rules(), domain.NewShuffledShoe(cfg.DeckSeed))
	session.RegisterEventHandler(console.HandleEvent)

	summary, err := session.Run(ctx, console)
	console.PrintSummary(summary)
	return err
}
