package options

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/d21d3q/gocis/internal/tuple"
)

// Output formats understood by the analyzer.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the analyzer settings that may come from a file.
type Config struct {
	Window   int    `yaml:"window" toml:"window"`
	Format   string `yaml:"format" toml:"format"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Hex      bool   `yaml:"hex" toml:"hex"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window:   tuple.DefaultWindow,
		Format:   FormatText,
		LogLevel: "info",
	}
}

// Load reads a YAML or TOML file on top of Default. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings for values the analyzer cannot honour.
func (c Config) Validate() error {
	if c.Window != 0 && (c.Window < 2 || c.Window > tuple.MaxWindow) {
		return fmt.Errorf("window must be between 2 and %d, got %d", tuple.MaxWindow, c.Window)
	}
	switch c.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

type contextKey struct{}

// WithLogger stores the provided logger inside the context.
func WithLogger(ctx context.Context, log *logrus.Entry) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, log)
}

// Logger retrieves the logger from context, or a discarding one.
func Logger(ctx context.Context) *logrus.Entry {
	if v := ctx.Value(contextKey{}); v != nil {
		if log, ok := v.(*logrus.Entry); ok {
			return log
		}
	}
	return discard
}

var discard = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// ParseHex decodes a hex dump of a CIS image. Whitespace, '|', '_' and ':'
// separators and a leading 0x are ignored.
func ParseHex(input string) ([]byte, error) {
	clean := stripSeparators(input)
	if len(clean) >= 2 && (clean[:2] == "0x" || clean[:2] == "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex input must contain an even number of digits, got %d", len(clean))
	}
	dst := make([]byte, len(clean)/2)
	if _, err := hex.Decode(dst, []byte(clean)); err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return dst, nil
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' || r == ':' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
