package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txtransform/config"
	"txtransform/preset"
	"txtransform/runs"
)

type testCLI struct {
	configDir string
	dataDir   string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	return &testCLI{configDir: t.TempDir(), dataDir: t.TempDir()}
}

func (c *testCLI) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--config-dir", c.configDir,
		"--data-dir", c.dataDir,
		"--log-format", "json",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *testCLI) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := c.run(t, stdin, args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

func TestPresetAddAndList(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "fmt", "json_unescape", "pretty_json")
	c.mustRun(t, "", "preset", "add", "py", "custom_py", "--arg", "py_script=x.py")

	var list []preset.Preset
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "preset", "list", "-o", "json")), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "fmt", list[0].Name)
	assert.Equal(t, []string{"json_unescape", "pretty_json"}, list[0].Transformers)
	assert.Equal(t, map[string]string{"py_script": "x.py"}, list[1].ExtraArgs)

	_, err := os.Stat(filepath.Join(c.configDir, config.PresetsFileName))
	assert.NoError(t, err, "presets.toml should be written")
}

func TestPresetListFormats(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "fmt", "json_unescape", "pretty_json")

	yamlOut := c.mustRun(t, "", "preset", "list", "-o", "yaml")
	assert.Contains(t, yamlOut, "name: fmt")

	tableOut := c.mustRun(t, "", "preset", "list", "-o", "table")
	assert.Contains(t, tableOut, "json_unescape > pretty_json")

	_, _, err := c.run(t, "", "preset", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestPresetDelete(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "a", "pretty_json")
	c.mustRun(t, "", "preset", "add", "b")
	c.mustRun(t, "", "preset", "add", "a")
	c.mustRun(t, "", "preset", "delete", "a")

	var list []preset.Preset
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "preset", "list", "-o", "json")), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)
}

func TestPresetReplaceFromYAML(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "old")

	doc := `
- name: clean
  transformers: [custom_py, pretty_json]
  step_args:
    - {py_script: clean.sh}
    - {}
- name: fmt
  transformers: [pretty_json]
`
	c.mustRun(t, doc, "preset", "replace", "-")

	var list []preset.Preset
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "preset", "list", "-o", "json")), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "clean", list[0].Name)
	assert.Equal(t, "clean.sh", list[0].ArgsForStep(0)["py_script"])
	assert.Empty(t, list[0].ArgsForStep(1)["py_script"])
}

func TestPresetReplaceRejectsUnnamed(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.run(t, "- transformers: [pretty_json]\n", "preset", "replace", "-")
	assert.ErrorContains(t, err, "has no name")
}

func TestTransformFromStdinAndFile(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "fmt", "json_unescape", "pretty_json")

	out := c.mustRun(t, `"{\"a\":1}"`, "transform", "fmt")
	assert.Equal(t, "{\n    \"a\": 1\n}", out)

	in := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`[1,2]`), 0o644))
	out = c.mustRun(t, "", "transform", "fmt", in)
	assert.Equal(t, "[\n    1,\n    2\n]", out)
}

func TestTransformUnknownPreset(t *testing.T) {
	c := newTestCLI(t)
	assert.Equal(t, "untouched", c.mustRun(t, "untouched", "transform", "nope"))

	_, _, err := c.run(t, "untouched", "transform", "--strict", "nope")
	require.Error(t, err)
	assert.Equal(t, "Error! Preset nope doesn't exist.", err.Error())
}

func TestTransformReportsPipelineErrors(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun(t, "", "preset", "add", "bad", "rot13")

	_, _, err := c.run(t, "x", "transform", "bad")
	require.Error(t, err)
	assert.Equal(t, "Error! Transformer rot13 doesn't exist.", err.Error())
}

func TestTransformCustomScript(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, os.WriteFile(filepath.Join(c.dataDir, "up.sh"), []byte("tr a-z A-Z\n"), 0o644))
	t.Setenv("TXTRANSFORM_INTERPRETER", "sh")

	c.mustRun(t, "", "preset", "add", "up", "custom_py", "--arg", "py_script=up.sh")
	assert.Equal(t, "HELLO", c.mustRun(t, "hello", "transform", "up"))
}

func TestTransformScriptTimeoutFlag(t *testing.T) {
	c := newTestCLI(t)
	require.NoError(t, os.WriteFile(filepath.Join(c.dataDir, "slow.sh"), []byte("exec sleep 30\n"), 0o644))
	c.mustRun(t, "", "preset", "add", "slow", "custom_py", "--arg", "py_script=slow.sh")

	_, _, err := c.run(t, "", "--interpreter", "sh", "--script-timeout", "100ms", "transform", "slow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script timed out")
}

func TestTransformersCommand(t *testing.T) {
	c := newTestCLI(t)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "transformers")), &names))
	assert.Equal(t, []string{"custom_py", "json_unescape", "pretty_json"}, names)
}

func TestConfigShowAndSet(t *testing.T) {
	c := newTestCLI(t)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "config", "show")), &cfg))
	assert.Equal(t, config.Default(), cfg)

	c.mustRun(t, "", "config", "set", "theme", "dark")
	c.mustRun(t, "", "config", "set", "font_size", "18")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "config", "show", "-o", "json")), &cfg))
	assert.Equal(t, config.Config{Theme: "dark", FontSize: 18}, cfg)

	_, _, err := c.run(t, "", "config", "set", "font_size", "300")
	assert.Error(t, err)
	_, _, err = c.run(t, "", "config", "set", "colour", "red")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("TXTRANSFORM_SCRIPT_TIMEOUT", "5s")
	t.Setenv("TXTRANSFORM_LISTEN", "127.0.0.1:9999")
	s, err := loadSettings(newViper())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.ScriptTimeout)
	assert.Equal(t, "127.0.0.1:9999", s.Listen)
	assert.Equal(t, "python3", s.Interpreter)
}

func TestSettingsRejectNegativeTimeout(t *testing.T) {
	t.Setenv("TXTRANSFORM_SCRIPT_TIMEOUT", "-1s")
	_, err := loadSettings(newViper())
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, zerolog.Nop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestRunsCommands(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/runs":
			json.NewEncoder(w).Encode([]runs.Run{{ID: "r1", Preset: "fmt", StartedAt: started}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/runs/r1":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestCLI(t)
	var list []runs.Run
	require.NoError(t, json.Unmarshal([]byte(c.mustRun(t, "", "runs", "--server", srv.URL)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "fmt", list[0].Preset)

	c.mustRun(t, "", "runs", "cancel", "r1", "--server", srv.URL)
	_, _, err := c.run(t, "", "runs", "cancel", "ghost", "--server", srv.URL)
	assert.ErrorIs(t, err, runs.ErrNotFound)
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "a=1 b=2", formatArgs(map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "", formatArgs(nil))
}
