package main

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/graph-guard/omap/pkg/cli"
	"github.com/graph-guard/omap/pkg/config"
	"github.com/graph-guard/omap/pkg/document"
)

// merge merges all input documents left to right and writes the result
// to stdout. Returns false if any step failed.
func merge(
	stdout, stderr io.Writer,
	filesystem fs.FS,
	c cli.CommandMerge,
) (ok bool) {
	// The configured log level is unknown until the configuration is read.
	l := newLogger(stderr, c.LogLevel, "merge")

	conf := &config.Config{Format: config.DefaultFormat}
	if c.ConfigPath != "" {
		var err error
		if conf, err = config.Read(filesystem, c.ConfigPath); err != nil {
			l.Error().
				Str("file", c.ConfigPath).
				Err(err).
				Msg("reading config")
			return false
		}
		if c.LogLevel == "" {
			l = newLogger(stderr, conf.LogLevel, "merge")
		}
	}

	format := c.Format
	if format == "" {
		format = conf.Format
	}
	strict := conf.Strict || c.Strict

	inputs := make([]string, 0, len(conf.Inputs)+len(c.Inputs))
	inputs = append(inputs, conf.Inputs...)
	inputs = append(inputs, c.Inputs...)
	if len(inputs) < 1 {
		l.Error().Msg("no input files")
		return false
	}

	result := document.Map{}
	var totalSize int
	for _, p := range inputs {
		d, size, err := readDocument(filesystem, p, strict)
		if err != nil {
			l.Error().Str("file", p).Err(err).Msg("reading document")
			return false
		}
		totalSize += size
		l.Debug().
			Str("file", p).
			Str("size", humanize.Bytes(uint64(size))).
			Int("keys", d.Count()).
			Msg("document read")

		if strict {
			if err := result.Union(d); err != nil {
				l.Error().Str("file", p).Err(err).Msg("merging document")
				return false
			}
			continue
		}
		result.Merge(d)
	}

	l.Info().
		Int("documents", len(inputs)).
		Str("read", humanize.Bytes(uint64(totalSize))).
		Str("keys", humanize.Comma(int64(result.Count()))).
		Bool("strict", strict).
		Msg("merged")

	if err := document.Encode(stdout, format, &result); err != nil {
		l.Error().Err(err).Msg("encoding result")
		return false
	}
	return true
}

// readDocument reads and decodes the document at p, inferring
// its format from the file extension.
func readDocument(
	filesystem fs.FS, p string, strict bool,
) (d *document.Map, size int, err error) {
	format, ok := document.FormatFromPath(p)
	if !ok {
		return nil, 0, fmt.Errorf("unsupported file extension: %q", p)
	}
	data, err := fs.ReadFile(filesystem, strings.TrimPrefix(p, "./"))
	if err != nil {
		return nil, 0, err
	}
	d, err = document.Decode(format, data, strict)
	if err != nil {
		return nil, 0, err
	}
	return d, len(data), nil
}
