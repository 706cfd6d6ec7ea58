package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse"
	"github.com/tokmz/pulse/pkg/tracing"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "配置文件路径（空则使用默认配置）")
	flag.Parse()

	cfg := pulse.DefaultAppConfig()
	if configPath != "" {
		loaded, err := pulse.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log, err := cfg.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Tracing.Enabled {
		if _, err := tracing.NewTracerProvider(cfg.BuildTracingConfig()); err != nil {
			log.Fatal("init tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx); err != nil {
				log.Warn("tracing shutdown", zap.Error(err))
			}
		}()
	}

	srv, err := pulse.New(cfg, pulse.WithLogger(log))
	if err != nil {
		log.Fatal("init server", zap.Error(err))
	}

	if err := srv.Run(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
