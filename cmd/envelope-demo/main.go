/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command envelope-demo serves a small API whose every response is an
// envelope.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/config"
	"dirpx.dev/denvelope/httpx"
	"dirpx.dev/denvelope/logger"
	"dirpx.dev/denvelope/mapper"
	"dirpx.dev/denvelope/metrics"
	"dirpx.dev/denvelope/replay"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "envelope-demo"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: cfg.ServiceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		WarnStack:   cfg.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "envelope-demo stopped unexpectedly", err)
		os.Exit(1)
	}
}

func newMapper(cfg *config.Config) (apis.Mapper, error) {
	overrides, err := cfg.HTTPOverrides()
	if err != nil {
		return nil, err
	}
	return mapper.New(
		mapper.WithHTTPOverride(codeMethodNotAllowed, http.StatusMethodNotAllowed),
		mapper.WithHTTPOverrides(overrides),
	)
}

func newReplayStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (replay.Store, func(), error) {
	if !cfg.ReplayEnabled() {
		logg.Warn(ctx, "no redis configured, idempotent replay is local to this process")
		return replay.NewMemoryStore(), func() {}, nil
	}
	client, err := replay.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap redis: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}
	return replay.NewRedisStore(client), closeFn, nil
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	m, err := newMapper(cfg)
	if err != nil {
		return fmt.Errorf("build mapper: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.NewEnvelopes(reg)

	store, closeStore, err := newReplayStore(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := newRouter(routerDeps{
		writer: httpx.Writer{
			Mapper:         m,
			Logger:         logg,
			Metrics:        met,
			ExposeInternal: cfg.ExposeInternal && !cfg.IsProd(),
		},
		replay:      store,
		replayTTL:   cfg.ReplayTTL,
		gatherer:    reg,
		corsOrigins: cfg.CORSOrigins,
		items:       newItemStore(),
	})

	server := &http.Server{Addr: cfg.Addr, Handler: handler}
	errCh := make(chan error, 2)

	lctx := logg.WithFields(ctx, map[string]any{"env": cfg.Env, "addr": cfg.Addr, "grpc_addr": cfg.GRPCAddr})
	logg.Info(lctx, "starting envelope-demo")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		gs := newGRPCServer(m, logg, met, cfg.ErrorDomain)
		go func() {
			if err := gs.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		defer gs.GracefulStop()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(lctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
