// Package pipeline runs a preset's transformer chain over an input string.
//
// Execution is linear and fail-fast: each transformer receives the previous
// one's output, and the first missing or failing transformer stops the run.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"txtransform/logging"
	"txtransform/preset"
	"txtransform/transformer"
)

// PresetSource resolves presets by name.
type PresetSource interface {
	FindByName(name string) (preset.Preset, bool)
}

// Registry resolves transformers by name.
type Registry interface {
	Lookup(name string) (transformer.Transformer, bool)
}

// Executor walks a preset's transformers in order.
type Executor struct {
	presets  PresetSource
	registry Registry
	metrics  *Metrics
	log      zerolog.Logger
	strict   bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics records runs and steps in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithStrictPresets makes an unknown preset name an ErrPresetNotFound
// instead of an empty pipeline.
func WithStrictPresets() Option {
	return func(e *Executor) { e.strict = true }
}

func NewExecutor(presets PresetSource, registry Registry, opts ...Option) *Executor {
	e := &Executor{presets: presets, registry: registry, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the preset called presetName over input. An unknown preset
// runs as an empty chain and returns input unchanged, unless the executor
// is strict.
func (e *Executor) Execute(ctx context.Context, presetName, input string) (out string, err error) {
	log := logging.FromContext(ctx, e.log).With().Str("preset", presetName).Logger()
	defer func() {
		if err != nil {
			e.metrics.observeRun(outcomeFailed)
			log.Debug().Err(err).Msg("pipeline stopped")
			return
		}
		e.metrics.observeRun(outcomeOK)
	}()

	p, ok := e.presets.FindByName(presetName)
	if !ok {
		if e.strict {
			return "", &PresetNotFoundError{Name: presetName}
		}
		log.Warn().Msg("preset not found, returning input unchanged")
		p = preset.Preset{Name: presetName}
	}

	text := input
	for i, name := range p.Transformers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		t, ok := e.registry.Lookup(name)
		if !ok {
			e.metrics.observeStep(name, outcomeUnknown, 0)
			return "", &UnknownTransformerError{Index: i, Name: name}
		}

		start := time.Now()
		next, err := t.Apply(ctx, text, p.ArgsForStep(i))
		elapsed := time.Since(start)
		if err != nil {
			e.metrics.observeStep(name, outcomeFailed, elapsed)
			return "", &StepError{Index: i, Transformer: name, Err: err}
		}
		e.metrics.observeStep(name, outcomeOK, elapsed)
		log.Trace().Int("step", i).Str("transformer", name).Dur("elapsed", elapsed).Msg("step done")
		text = next
	}
	return text, nil
}

// Run is Execute with failures rendered into the returned string, for
// callers whose contract has no error channel.
func (e *Executor) Run(ctx context.Context, presetName, input string) string {
	out, err := e.Execute(ctx, presetName, input)
	if err != nil {
		return Message(err)
	}
	return out
}
