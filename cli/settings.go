package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"txtransform/config"
	"txtransform/transformer"
)

// EnvPrefix is prepended to every settings key when read from the
// environment, e.g. TXTRANSFORM_SCRIPT_TIMEOUT.
const EnvPrefix = "TXTRANSFORM"

const (
	keyConfigDir     = "config_dir"
	keyDataDir       = "data_dir"
	keyListen        = "listen"
	keyInterpreter   = "interpreter"
	keyScriptTimeout = "script_timeout"
	keyLogLevel      = "log_level"
	keyLogFormat     = "log_format"
	keyServer        = "server"
)

// Settings are the runtime knobs shared by every command.
type Settings struct {
	Dirs          config.Dirs
	Listen        string
	Interpreter   string
	ScriptTimeout time.Duration
	LogLevel      string
	LogFormat     string
	Server        string
}

func newViper() *viper.Viper {
	v := viper.New()
	dirs := config.DefaultDirs()
	v.SetDefault(keyConfigDir, dirs.Config)
	v.SetDefault(keyDataDir, dirs.Data)
	v.SetDefault(keyListen, ":8080")
	v.SetDefault(keyInterpreter, transformer.DefaultInterpreter)
	v.SetDefault(keyScriptTimeout, 30*time.Second)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "auto")
	v.SetDefault(keyServer, "http://localhost:8080")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags binds every settings key that cmd exposes as a flag (with
// dashes for underscores), so an explicit flag beats env and defaults.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, key := range []string{
		keyConfigDir, keyDataDir, keyListen, keyInterpreter,
		keyScriptTimeout, keyLogLevel, keyLogFormat, keyServer,
	} {
		f := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// loadEnvFiles loads .env then .env.local. Variables already present in the
// environment win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(name)
	}
}

func loadSettings(v *viper.Viper) (Settings, error) {
	timeout := v.GetDuration(keyScriptTimeout)
	if timeout < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative, got %s", keyScriptTimeout, timeout)
	}
	return Settings{
		Dirs: config.Dirs{
			Config: v.GetString(keyConfigDir),
			Data:   v.GetString(keyDataDir),
		},
		Listen:        v.GetString(keyListen),
		Interpreter:   v.GetString(keyInterpreter),
		ScriptTimeout: timeout,
		LogLevel:      v.GetString(keyLogLevel),
		LogFormat:     v.GetString(keyLogFormat),
		Server:        strings.TrimRight(v.GetString(keyServer), "/"),
	}, nil
}
