package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/api/client"
	"github.com/saadamjad-44/school-attendance-system/internal/cli"
	"github.com/saadamjad-44/school-attendance-system/internal/config"
	"github.com/saadamjad-44/school-attendance-system/internal/services/lifecycle"
	"github.com/saadamjad-44/school-attendance-system/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Printf("logger error: %v", err)
		return 1
	}
	defer func() { _ = zapLogger.Sync() }()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	defer func() {
		if err := manager.Close(); err != nil {
			zapLogger.Error("release error", zap.Error(err))
		}
	}()

	ctx, cancel := manager.SignalContext(context.Background())
	defer cancel()

	sessions, err := cli.OpenSessionStore(ctx, cfg, manager, zapLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	gw := client.NewGateway(client.GatewayConfig{
		BaseURL:  cfg.API.BaseURL,
		BasePath: cfg.API.BasePath,
		Profile:  cfg.Session.Profile,
		Timeout:  cfg.API.Timeout,
	}, nil, sessions.Repository, zapLogger)

	env := &cli.Env{
		Client:        client.New(gw, zapLogger),
		Out:           os.Stdout,
		Logger:        zapLogger,
		WatchInterval: cfg.Watch.Interval,
		Profiles:      sessions.Profiles,
	}

	dispatcher := cli.NewDispatcher()
	cli.Register(dispatcher)

	result, err := dispatcher.Execute(ctx, env, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := cli.WriteJSON(os.Stdout, result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
