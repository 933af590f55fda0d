package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"ventascli/internal/buildinfo"
	"ventascli/internal/client/cli"
	"ventascli/internal/client/config"
	"ventascli/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer zl.Sync()

	app, err := cli.NewApp(ctx, cfg, logging.NewZapLogger(zl))
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
