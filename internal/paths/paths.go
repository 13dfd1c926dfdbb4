// Package paths resolves the per-user directories chaos reads and writes.
package paths

import (
	"errors"
	"os"
	"path/filepath"
)

const appName = "chaos"

// root describes one per-user directory tree. An absolute value in env wins,
// then the OS default, then home joined with homeRel.
type root struct {
	env     string
	osDir   func() (string, error)
	homeRel string
}

var (
	configTree = root{env: "XDG_CONFIG_HOME", osDir: os.UserConfigDir, homeRel: ".config"}
	stateTree  = root{env: "XDG_STATE_HOME", homeRel: filepath.Join(".local", "state")}
)

var errNoHome = errors.New("resolve user home directory")

func (r root) dir() (string, error) {
	if v := os.Getenv(r.env); v != "" && filepath.IsAbs(v) {
		return filepath.Join(v, appName), nil
	}

	var osErr error

	if r.osDir != nil {
		base, err := r.osDir()
		if err == nil && base != "" {
			return filepath.Join(base, appName), nil
		}

		osErr = err
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, r.homeRel, appName), nil
	}

	if osErr != nil {
		return "", osErr
	}

	return "", errNoHome
}

func (r root) join(elem ...string) (string, error) {
	dir, err := r.dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// ConfigRoot returns the directory holding config.yaml and the token file.
func ConfigRoot() (string, error) { return configTree.dir() }

// StateRoot returns the directory holding logs.
func StateRoot() (string, error) { return stateTree.dir() }

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) { return configTree.join("config.yaml") }

// DefaultLogFile returns the log file used while the TUI owns the terminal.
func DefaultLogFile() (string, error) { return stateTree.join("logs", "chaos.log") }

// CredentialsFile returns the Twitch login fallback file path.
func CredentialsFile() (string, error) { return configTree.join("twitch-token") }
