package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgsForStepSharedOnly(t *testing.T) {
	p := Preset{Transformers: []string{"a", "b"}, ExtraArgs: map[string]string{"k": "v"}}
	assert.Equal(t, map[string]string{"k": "v"}, p.ArgsForStep(0))
	assert.Equal(t, map[string]string{"k": "v"}, p.ArgsForStep(1))

	got := p.ArgsForStep(0)
	got["k"] = "changed"
	assert.Equal(t, "v", p.ExtraArgs["k"], "ArgsForStep must not alias ExtraArgs")
}

func TestArgsForStepOverlay(t *testing.T) {
	p := Preset{
		Transformers: []string{"a", "b", "c"},
		ExtraArgs:    map[string]string{"py_script": "shared.py", "mode": "x"},
		StepArgs:     []map[string]string{nil, {"py_script": "second.py"}},
	}
	assert.Equal(t, "shared.py", p.ArgsForStep(0)["py_script"])
	assert.Equal(t, map[string]string{"py_script": "second.py", "mode": "x"}, p.ArgsForStep(1))
	assert.Equal(t, "shared.py", p.ArgsForStep(2)["py_script"])
}

func TestArgsForStepNone(t *testing.T) {
	assert.Nil(t, Preset{Transformers: []string{"a"}}.ArgsForStep(0))
}

func TestCloneIsDeep(t *testing.T) {
	p := Preset{
		Name:         "p",
		Transformers: []string{"a"},
		ExtraArgs:    map[string]string{"k": "v"},
		StepArgs:     []map[string]string{{"s": "1"}},
	}
	c := p.Clone()
	c.Transformers[0] = "z"
	c.ExtraArgs["k"] = "z"
	c.StepArgs[0]["s"] = "z"

	assert.Equal(t, "a", p.Transformers[0])
	assert.Equal(t, "v", p.ExtraArgs["k"])
	assert.Equal(t, "1", p.StepArgs[0]["s"])
}
