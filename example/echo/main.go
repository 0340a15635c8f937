// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/z5labs/httpadapter"
	"github.com/z5labs/httpadapter/config"
	"github.com/z5labs/httpadapter/internal/fixedpool"
	"github.com/z5labs/httpadapter/internal/try"
	"github.com/z5labs/httpadapter/listener"
	"github.com/z5labs/httpadapter/pkg/health"
	"github.com/z5labs/httpadapter/pkg/maskslog"
	"github.com/z5labs/httpadapter/pkg/otelslog"
	"github.com/z5labs/httpadapter/pkg/ptr"
	"github.com/z5labs/httpadapter/pkg/slogfield"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

//go:embed config.yaml
var defaultConfig []byte

// Config is read from the embedded defaults, an optional yaml or json file and
// ECHO_ prefixed environment variables, in that order.
type Config struct {
	Logging struct {
		Level slog.Level `config:"level"`
	} `config:"logging"`

	HTTP httpadapter.Options `config:"http"`

	HTTPS struct {
		Enabled bool                `config:"enabled"`
		Options httpadapter.Options `config:",squash"`
	} `config:"https"`

	Metrics struct {
		Port int `config:"port"`
	} `config:"metrics"`

	Upload UploadConfig `config:"upload"`
}

func readConfig(path string) (Config, error) {
	srcs := []config.Source{config.FromYaml(bytes.NewReader(defaultConfig))}
	if path != "" {
		srcs = append(srcs, config.FromFile(path))
	}
	srcs = append(srcs, config.FromEnv(config.Prefix("ECHO_"), config.Separator("__")))

	m, err := config.Read(srcs...)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	err = m.Unmarshal(&cfg)
	return cfg, err
}

func newLogHandler(w io.Writer, lvl slog.Level) slog.Handler {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true, Level: lvl})
	return otelslog.NewHandler(maskslog.NewHandler(h, "password"))
}

func initTracing(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// serving is healthy while every listener in refs is registered and serving.
func serving(lr *listener.Registry, refs ...string) health.Metric {
	metrics := make([]health.Metric, 0, len(refs))
	for _, ref := range refs {
		metrics = append(metrics, health.MetricFunc(func(ctx context.Context) bool {
			l, ok := lr.Lookup(ref)
			return ok && l.Healthy(ctx)
		}))
	}
	return health.And(metrics...)
}

func metricsDispatch(reg *prometheus.Registry, readiness health.Metric) listener.Dispatch {
	return listener.Dispatch{
		{
			Host: listener.AnyHost,
			Routes: []listener.Route{
				{Pattern: "GET /metrics", Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})},
				{Pattern: "GET /health/readiness", Handler: health.NewHandler(readiness)},
			},
		},
	}
}

// specs describes every listener the echo server runs.
func specs(ctx context.Context, cfg Config, a *httpadapter.Adapter, app echo, lr *listener.Registry, reg *prometheus.Registry) ([]listener.Spec, error) {
	plain, err := a.ChildSpec(ctx, httpadapter.Plain, app, cfg.Upload, cfg.HTTP)
	if err != nil {
		return nil, err
	}
	out := []listener.Spec{plain}

	if cfg.HTTPS.Enabled {
		secure, err := a.ChildSpec(ctx, httpadapter.TLS, app, cfg.Upload, cfg.HTTPS.Options)
		if err != nil {
			return nil, err
		}
		out = append(out, secure)
	}

	refs := make([]string, 0, len(out))
	for _, s := range out {
		refs = append(refs, s.Ref)
	}

	metrics, err := a.ChildSpec(ctx, httpadapter.Plain, nil, nil, httpadapter.Options{
		Ref:      "metrics.HTTP",
		Port:     ptr.Ref(cfg.Metrics.Port),
		Dispatch: metricsDispatch(reg, serving(lr, refs...)),
	})
	if err != nil {
		return nil, err
	}
	return append(out, metrics), nil
}

func run(ctx context.Context, cfg Config, trace bool) error {
	logHandler := newLogHandler(os.Stderr, cfg.Logging.Level)
	log := slog.New(logHandler)

	if trace {
		shutdown, err := initTracing(os.Stdout)
		if err != nil {
			return err
		}
		defer func() {
			serr := shutdown(context.Background())
			if serr != nil {
				log.Error("failed to flush traces", slogfield.Error(serr))
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	lr := listener.NewRegistry(
		listener.LogHandler(logHandler),
		listener.Metrics(reg),
	)
	a := httpadapter.New(
		httpadapter.LogHandler(logHandler),
		httpadapter.Registry(lr),
	)

	ss, err := specs(ctx, cfg, a, echo{log: log}, lr, reg)
	if err != nil {
		return err
	}

	tasks := make([]fixedpool.Task, 0, len(ss))
	for _, s := range ss {
		tasks = append(tasks, s.Run)
	}
	return fixedpool.Wait(ctx, tasks...)
}

func newCommand() *cobra.Command {
	var (
		configPath string
		trace      bool
	)

	cmd := &cobra.Command{
		Use:           "echo",
		Short:         "Serve an echo application over HTTP and HTTPS",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			cfg, err := readConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, trace)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "yaml or json config file overriding the defaults")
	cmd.Flags().BoolVar(&trace, "trace", false, "export traces to stdout")
	return cmd
}

func main() {
	err := newCommand().ExecuteContext(context.Background())
	if err != nil {
		slog.Default().Error("echo failed", slogfield.Error(err))
		os.Exit(1)
	}
}
