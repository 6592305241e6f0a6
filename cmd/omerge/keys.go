package main

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/graph-guard/omap/pkg/cli"
	"github.com/graph-guard/omap/pkg/document"
)

// keys prints the top-level keys of a document in order,
// one per line with the kind of their value.
func keys(
	stdout, stderr io.Writer,
	filesystem fs.FS,
	c cli.CommandKeys,
) (ok bool) {
	l := newLogger(stderr, c.LogLevel, "keys")
	d, _, err := readDocument(filesystem, c.Input, false)
	if err != nil {
		l.Error().Str("file", c.Input).Err(err).Msg("reading document")
		return false
	}
	n := 1
	for it := d.Iterator(); it.Valid(); it.Next() {
		fmt.Fprintf(stdout, "%d. %s (%s)\n", n, it.Key(), kind(it.Current()))
		n++
	}
	return true
}

func kind(v any) string {
	switch v.(type) {
	case *document.Map:
		return "mapping"
	case []any:
		return "sequence"
	}
	return "scalar"
}
