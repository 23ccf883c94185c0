package preset

import "maps"

// Preset is a named, ordered chain of transformer names. ExtraArgs is shared
// by every step; StepArgs, when present, is aligned with Transformers and
// overlays ExtraArgs for the step at the same index.
type Preset struct {
	Name         string              `toml:"name" json:"name" yaml:"name"`
	Transformers []string            `toml:"transformers" json:"transformers" yaml:"transformers"`
	ExtraArgs    map[string]string   `toml:"extra_args,omitempty" json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
	StepArgs     []map[string]string `toml:"step_args,omitempty" json:"step_args,omitempty" yaml:"step_args,omitempty"`
}

// Document is the on-disk shape of presets.toml.
type Document struct {
	Presets []Preset `toml:"presets"`
}

// ArgsForStep returns the arguments step i receives. The result is a fresh
// map, or nil when the preset carries no arguments for that step.
func (p Preset) ArgsForStep(i int) map[string]string {
	var step map[string]string
	if i >= 0 && i < len(p.StepArgs) {
		step = p.StepArgs[i]
	}
	if len(step) == 0 {
		if p.ExtraArgs == nil {
			return nil
		}
		return maps.Clone(p.ExtraArgs)
	}
	out := make(map[string]string, len(p.ExtraArgs)+len(step))
	maps.Copy(out, p.ExtraArgs)
	maps.Copy(out, step)
	return out
}

// Clone returns a deep copy so callers never share slices or maps with the store.
func (p Preset) Clone() Preset {
	c := Preset{
		Name:         p.Name,
		Transformers: append([]string(nil), p.Transformers...),
		ExtraArgs:    maps.Clone(p.ExtraArgs),
	}
	if p.StepArgs != nil {
		c.StepArgs = make([]map[string]string, len(p.StepArgs))
		for i, a := range p.StepArgs {
			// nil entries would be dropped from the TOML array and shift
			// the later steps, so they are stored as empty tables.
			if a == nil {
				a = map[string]string{}
			}
			c.StepArgs[i] = maps.Clone(a)
		}
	}
	if c.Transformers == nil {
		c.Transformers = []string{}
	}
	return c
}
