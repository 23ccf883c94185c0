package cli

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"txtransform/config"
	"txtransform/logging"
	"txtransform/pipeline"
	"txtransform/preset"
	"txtransform/runs"
	"txtransform/service"
	"txtransform/transformer"
)

// app holds the services one command invocation works with.
type app struct {
	settings Settings
	log      zerolog.Logger
	registry *prometheus.Registry
	svc      *service.Service
}

type appOptions struct {
	strict bool
}

func newApp(s Settings, logOut io.Writer, opts appOptions) *app {
	log := logging.New(logging.Options{Level: s.LogLevel, Format: s.LogFormat, Output: logOut})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	presets := preset.NewManager(s.Dirs.PresetsPath(), log.With().Str("component", "presets").Logger())
	cfg := config.NewStore(s.Dirs.ConfigPath(), log.With().Str("component", "config").Logger())

	script := transformer.NewScript(s.Interpreter, s.Dirs.Data, s.ScriptTimeout,
		log.With().Str("component", "script").Logger())
	registry := transformer.Builtins(script)

	execOpts := []pipeline.Option{
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
		pipeline.WithLogger(log),
	}
	if opts.strict {
		execOpts = append(execOpts, pipeline.WithStrictPresets())
	}

	svc := service.New(service.Deps{
		Presets:      presets,
		Config:       cfg,
		Executor:     pipeline.NewExecutor(presets, registry, execOpts...),
		Transformers: registry,
		Runs:         runs.NewManager(),
		Logger:       log,
	})
	return &app{settings: s, log: log, registry: reg, svc: svc}
}
