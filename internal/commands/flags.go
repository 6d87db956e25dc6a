package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/signup/internal/core/config"
)

const appName = "signup"

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// LoadConfig loads the config file into f.Config. args are the arguments left
// after the global flags. When they invoke `config init`, a file that fails to
// load is replaced by the defaults so the command can rewrite it.
func (f *Flags) LoadConfig(args []string) error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		if !isConfigInit(args) {
			return fmt.Errorf("load config: %w", err)
		}
		log.Warn().Err(err).Str("path", f.ConfigPath).Msg("ignoring unusable config for config init")
		defaults := config.DefaultConfig()
		cfg = &defaults
	}
	f.Config = cfg
	return nil
}

func isConfigInit(args []string) bool {
	return len(args) >= 2 && args[0] == "config" && args[1] == "init"
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName, "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/signup/signup.log
// On Linux: $XDG_STATE_HOME/signup/signup.log (defaults to ~/.local/state/signup/signup.log)
func DefaultLogFile() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName, appName+".log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", appName, appName+".log")
	}
	return filepath.Join(home, ".local", "state", appName, appName+".log")
}
