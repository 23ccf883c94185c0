// Package service is the boundary API shared by the HTTP server and the CLI.
//
// Transform never fails from the caller's point of view: pipeline errors come
// back rendered into the output string. AddPreset and DeletePreset keep the
// in-memory change even when persisting it fails; the failure is logged.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"txtransform/config"
	"txtransform/logging"
	"txtransform/pipeline"
	"txtransform/preset"
	"txtransform/runs"
)

// Transformers lists the names a preset may reference.
type Transformers interface {
	Names() []string
}

type Service struct {
	presets  *preset.Manager
	config   *config.Store
	executor *pipeline.Executor
	names    Transformers
	runs     *runs.Manager
	log      zerolog.Logger
}

type Deps struct {
	Presets      *preset.Manager
	Config       *config.Store
	Executor     *pipeline.Executor
	Transformers Transformers
	Runs         *runs.Manager
	Logger       zerolog.Logger
}

func New(d Deps) *Service {
	if d.Runs == nil {
		d.Runs = runs.NewManager()
	}
	return &Service{
		presets:  d.Presets,
		config:   d.Config,
		executor: d.Executor,
		names:    d.Transformers,
		runs:     d.Runs,
		log:      d.Logger,
	}
}

// Result is the outcome of one Transform call.
type Result struct {
	Output string `json:"output"`
	RunID  string `json:"run_id"`
}

// Transform runs presetName over input as a tracked run. Failures are
// rendered into Output.
func (s *Service) Transform(ctx context.Context, input, presetName string) Result {
	res, err := s.Execute(ctx, input, presetName)
	if err != nil {
		res.Output = pipeline.Message(err)
	}
	return res
}

// Execute is Transform with the pipeline error returned instead of
// rendered. RunID is set either way.
func (s *Service) Execute(ctx context.Context, input, presetName string) (Result, error) {
	run, ctx := s.runs.Start(ctx, presetName)
	defer s.runs.Finish(run.ID)

	log := s.log.With().Str("run_id", run.ID).Logger()
	ctx = logging.WithLogger(ctx, log)
	out, err := s.executor.Execute(ctx, presetName, input)
	return Result{Output: out, RunID: run.ID}, err
}

func (s *Service) ListPresets() []preset.Preset {
	return s.presets.List()
}

// AddPreset appends a preset. Persistence failures are logged, not returned.
func (s *Service) AddPreset(p preset.Preset) {
	if err := s.presets.Add(p); err != nil {
		s.log.Error().Err(err).
			Str("preset", p.Name).
			Str("path", s.presets.Path()).
			Msg("failed to persist added preset")
	}
}

// DeletePreset removes every preset named name. Persistence failures are
// logged, not returned.
func (s *Service) DeletePreset(name string) {
	removed, err := s.presets.Remove(name)
	if err != nil {
		s.log.Error().Err(err).
			Str("preset", name).
			Str("path", s.presets.Path()).
			Msg("failed to persist preset removal")
		return
	}
	if removed == 0 {
		s.log.Debug().Str("preset", name).Msg("delete matched no presets")
	}
}

// ReplacePresets swaps the whole list. Unlike AddPreset it reports
// persistence failures, and memory is left untouched when one occurs.
func (s *Service) ReplacePresets(list []preset.Preset) ([]preset.Preset, error) {
	if err := s.presets.Save(list); err != nil {
		return nil, err
	}
	return s.presets.List(), nil
}

func (s *Service) TransformerNames() []string {
	return s.names.Names()
}

func (s *Service) Config() config.Config {
	return s.config.Get()
}

func (s *Service) SaveConfig(cfg config.Config) error {
	return s.config.Save(cfg)
}

func (s *Service) Runs() []*runs.Run {
	return s.runs.List()
}

func (s *Service) CancelRun(id string) error {
	return s.runs.Cancel(id)
}
