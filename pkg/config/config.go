// Package config reads the optional omerge configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/graph-guard/omap/pkg/document"
	yaml "gopkg.in/yaml.v3"
)

const DefaultFormat = document.FormatYAML
const DefaultLogLevel = "info"

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	// Inputs are merged left to right.
	// Relative paths are resolved against the configuration directory.
	Inputs   []string
	Format   document.Format
	Strict   bool
	LogLevel string
}

type config struct {
	Inputs   []string `yaml:"inputs"`
	Format   string   `yaml:"format"`
	Strict   bool     `yaml:"strict"`
	LogLevel string   `yaml:"log-level"`
}

// Read reads the configuration file at filePath from filesystem.
func Read(filesystem fs.FS, filePath string) (*Config, error) {
	f, err := filesystem.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrorMissing{FilePath: filePath}
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	var c config
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Feature:  "syntax",
			Message:  err.Error(),
		}
	}

	conf := &Config{
		Strict:   c.Strict,
		Format:   DefaultFormat,
		LogLevel: DefaultLogLevel,
	}

	if c.Format != "" {
		f, ok := document.ParseFormat(c.Format)
		if !ok {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "format",
				Message:  fmt.Sprintf("unsupported format %q", c.Format),
			}
		}
		conf.Format = f
	}

	if c.LogLevel != "" {
		if !ValidLogLevel(c.LogLevel) {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "log-level",
				Message: fmt.Sprintf(
					"expected one of: %s", strings.Join(LogLevels, ", "),
				),
			}
		}
		conf.LogLevel = c.LogLevel
	}

	dir := path.Dir(filePath)
	for i, p := range c.Inputs {
		if _, ok := document.FormatFromPath(p); !ok {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  fmt.Sprintf("inputs[%d]", i),
				Message:  fmt.Sprintf("unsupported file extension: %q", p),
			}
		}
		if !path.IsAbs(p) {
			p = path.Join(dir, p)
		}
		conf.Inputs = append(conf.Inputs, p)
	}

	return conf, nil
}

// ValidLogLevel returns true if l is one of LogLevels.
func ValidLogLevel(l string) bool {
	for _, v := range LogLevels {
		if v == l {
			return true
		}
	}
	return false
}

type ErrorMissing struct {
	FilePath string
	Feature  string
}

func (e ErrorMissing) Error() string {
	var b strings.Builder
	if e.Feature == "" {
		b.Grow(len("missing ") + len(e.FilePath))
		b.WriteString("missing ")
		b.WriteString(e.FilePath)
		return b.String()
	}
	b.Grow(len("missing ") + len(e.Feature) + len(" in ") + len(e.FilePath))
	b.WriteString("missing ")
	b.WriteString(e.Feature)
	b.WriteString(" in ")
	b.WriteString(e.FilePath)
	return b.String()
}

type ErrorIllegal struct {
	FilePath string
	Feature  string
	Message  string
}

func (e ErrorIllegal) Error() string {
	var b strings.Builder
	b.Grow(len("illegal ") +
		len(e.Feature) +
		len(" in ") +
		len(e.FilePath) +
		len(": ") +
		len(e.Message))
	b.WriteString("illegal ")
	b.WriteString(e.Feature)
	b.WriteString(" in ")
	b.WriteString(e.FilePath)
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}
