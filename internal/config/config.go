// Package config loads the chaos configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (CHAOS_*)
//  2. Config file (--config, or <user config dir>/chaos/config.yaml)
//  3. Built-in defaults
//
// Load returns an immutable Config value. Callers pass it (or the parts they
// need) explicitly; nothing in the process mutates it after startup.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/musher-dev/chaos/internal/paths"
)

const (
	// DefaultMessageCommand is the chat command that shows a notification.
	DefaultMessageCommand = "!msg"
	// DefaultColorSchemeCommand is the chat command that swaps the colour scheme.
	DefaultColorSchemeCommand = "!colorscheme"
	// DefaultHellCommand is the chat command that scrambles navigation keys.
	DefaultHellCommand = "!vimhell"

	// DefaultColorSchemeDuration is how long a colour scheme override lasts, in seconds.
	DefaultColorSchemeDuration = 5 * 60
	// DefaultHellDuration is how long the key remap lasts, in seconds.
	DefaultHellDuration = 60

	// DefaultColorScheme is the scheme restored when an override expires.
	DefaultColorScheme = "retrobox"
	// DefaultBackground is the background restored when an override expires.
	DefaultBackground = "dark"

	// DefaultNotifyTimeout is how long chat messages stay on screen, in seconds.
	DefaultNotifyTimeout = 20
	// DefaultVolume is the chime volume in beep's logarithmic scale.
	DefaultVolume = -6.0

	// TransportIRC connects to Twitch chat over IRC/TLS.
	TransportIRC = "irc"
	// TransportWebSocket connects to Twitch chat over IRC-over-WebSocket.
	TransportWebSocket = "websocket"
)

// Config is an immutable snapshot of the chaos configuration.
type Config struct {
	Channel   string   `mapstructure:"channel" json:"channel" yaml:"channel" toml:"channel"`
	Transport string   `mapstructure:"transport" json:"transport" yaml:"transport" toml:"transport"`
	Commands  Commands `mapstructure:"commands" json:"commands" yaml:"commands" toml:"commands"`
	Sound     Sound    `mapstructure:"sound" json:"sound" yaml:"sound" toml:"sound"`
	Notify    Notify   `mapstructure:"notify" json:"notify" yaml:"notify" toml:"notify"`
}

// Commands is the chat command table.
type Commands struct {
	Message     string             `mapstructure:"message" json:"message" yaml:"message" toml:"message"`
	ColorScheme ColorSchemeCommand `mapstructure:"colorscheme" json:"colorscheme" yaml:"colorscheme" toml:"colorscheme"`
	Hell        HellCommand        `mapstructure:"hell" json:"hell" yaml:"hell" toml:"hell"`
}

// ColorSchemeCommand configures the colour scheme override.
type ColorSchemeCommand struct {
	Name       string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Duration   uint32 `mapstructure:"duration" json:"duration" yaml:"duration" toml:"duration"`
	Default    string `mapstructure:"default" json:"default" yaml:"default" toml:"default"`
	Background string `mapstructure:"background" json:"background" yaml:"background" toml:"background"`
}

// HellCommand configures the key remap override.
type HellCommand struct {
	Name     string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Duration uint32 `mapstructure:"duration" json:"duration" yaml:"duration" toml:"duration"`
}

// Sound configures the chime played for chat messages.
type Sound struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Volume  float64 `mapstructure:"volume" json:"volume" yaml:"volume" toml:"volume"`
}

// Notify configures chat message notifications.
type Notify struct {
	Timeout int `mapstructure:"timeout" json:"timeout" yaml:"timeout" toml:"timeout"`
}

// HasChannel reports whether a chat channel is configured. Without one the
// chat pipeline is not started.
func (c Config) HasChannel() bool {
	return strings.TrimSpace(c.Channel) != ""
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file path. When empty the default location
	// is used and a missing file is not an error.
	File string
}

// FieldError describes a problem with a single configuration field.
type FieldError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Path == "" {
		return "config: " + e.Reason
	}

	return fmt.Sprintf("config: %s: %s", e.Path, e.Reason)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("channel", "")
	v.SetDefault("transport", TransportIRC)
	v.SetDefault("commands.message", DefaultMessageCommand)
	v.SetDefault("commands.colorscheme.name", DefaultColorSchemeCommand)
	v.SetDefault("commands.colorscheme.duration", DefaultColorSchemeDuration)
	v.SetDefault("commands.colorscheme.default", DefaultColorScheme)
	v.SetDefault("commands.colorscheme.background", DefaultBackground)
	v.SetDefault("commands.hell.name", DefaultHellCommand)
	v.SetDefault("commands.hell.duration", DefaultHellDuration)
	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.volume", DefaultVolume)
	v.SetDefault("notify.timeout", DefaultNotifyTimeout)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Transport: TransportIRC,
		Commands: Commands{
			Message: DefaultMessageCommand,
			ColorScheme: ColorSchemeCommand{
				Name:       DefaultColorSchemeCommand,
				Duration:   DefaultColorSchemeDuration,
				Default:    DefaultColorScheme,
				Background: DefaultBackground,
			},
			Hell: HellCommand{
				Name:     DefaultHellCommand,
				Duration: DefaultHellDuration,
			},
		},
		Sound:  Sound{Enabled: true, Volume: DefaultVolume},
		Notify: Notify{Timeout: DefaultNotifyTimeout},
	}
}

// Load reads configuration from all sources and validates it.
func Load(opts Options) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else if root, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(root)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CHAOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := checkKeys(v); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, decodeError(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// knownKeys is the set of leaf keys the schema accepts.
func knownKeys() map[string]bool {
	v := viper.New()
	setDefaults(v)

	known := make(map[string]bool)
	for _, key := range v.AllKeys() {
		known[key] = true
	}

	return known
}

// checkKeys rejects keys the schema does not know, naming each offending path.
func checkKeys(v *viper.Viper) error {
	known := knownKeys()

	var errs []error

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		if known[key] {
			continue
		}

		reason := "unknown field"
		if hasKnownChild(known, key) {
			reason = "expected a table"
		}

		errs = append(errs, &FieldError{Path: key, Reason: reason})
	}

	return errors.Join(errs...)
}

func hasKnownChild(known map[string]bool, key string) bool {
	prefix := key + "."
	for k := range known {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}

	return false
}

var quotedField = regexp.MustCompile(`'([A-Za-z0-9_.\[\]]+)'`)

// decodeError turns a mapstructure decoding failure into a FieldError,
// recovering the field path from the message when one is present.
func decodeError(err error) error {
	msg := err.Error()

	path := ""
	if m := quotedField.FindStringSubmatch(msg); m != nil {
		path = strings.ToLower(m[1])
	}

	reason := msg
	if i := strings.LastIndex(msg, ": "); i >= 0 && path != "" {
		reason = strings.TrimSpace(msg[i+2:])
	}

	return &FieldError{Path: path, Reason: reason}
}

// Validate checks field values. Every problem is reported, joined.
func (c Config) Validate() error {
	var errs []error

	switch c.Transport {
	case TransportIRC, TransportWebSocket:
	default:
		errs = append(errs, &FieldError{
			Path:   "transport",
			Reason: fmt.Sprintf("invalid value %q (allowed: %s, %s)", c.Transport, TransportIRC, TransportWebSocket),
		})
	}

	names := []struct {
		path  string
		value string
	}{
		{"commands.message", c.Commands.Message},
		{"commands.colorscheme.name", c.Commands.ColorScheme.Name},
		{"commands.hell.name", c.Commands.Hell.Name},
	}

	seen := make(map[string]string, len(names))

	for _, n := range names {
		switch {
		case n.value == "":
			errs = append(errs, &FieldError{Path: n.path, Reason: "must not be empty"})
			continue
		case strings.ContainsAny(n.value, " \t\r\n"):
			errs = append(errs, &FieldError{Path: n.path, Reason: "must be a single token"})
			continue
		}

		if other, ok := seen[n.value]; ok {
			errs = append(errs, &FieldError{
				Path:   n.path,
				Reason: fmt.Sprintf("command %q already used by %s", n.value, other),
			})

			continue
		}

		seen[n.value] = n.path
	}

	switch c.Commands.ColorScheme.Background {
	case "", "dark", "light":
	default:
		errs = append(errs, &FieldError{
			Path:   "commands.colorscheme.background",
			Reason: fmt.Sprintf("invalid value %q (allowed: dark, light)", c.Commands.ColorScheme.Background),
		})
	}

	if c.Commands.ColorScheme.Default == "" {
		errs = append(errs, &FieldError{Path: "commands.colorscheme.default", Reason: "must not be empty"})
	}

	if c.Sound.Volume < -10 || c.Sound.Volume > 0 {
		errs = append(errs, &FieldError{
			Path:   "sound.volume",
			Reason: fmt.Sprintf("%v out of range [-10, 0]", c.Sound.Volume),
		})
	}

	if c.Notify.Timeout < 0 {
		errs = append(errs, &FieldError{Path: "notify.timeout", Reason: "must not be negative"})
	}

	return errors.Join(errs...)
}
