package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/graph-guard/omap/pkg/cli"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args, osFS{}))
}

// run executes the command given by args and returns the exit code.
// Documents are written to stdout, usage and logs to stderr.
func run(stdout, stderr io.Writer, args []string, filesystem fs.FS) int {
	switch c := cli.Parse(stderr, args).(type) {
	case cli.CommandMerge:
		if !merge(stdout, stderr, filesystem, c) {
			return 1
		}
	case cli.CommandKeys:
		if !keys(stdout, stderr, filesystem, c) {
			return 1
		}
	case cli.CommandHelp:
	default:
		if c != nil {
			panic(fmt.Errorf("unexpected command: %#v", c))
		}
		return 2
	}
	return 0
}

// osFS opens files relative to the working directory
// and accepts absolute paths, unlike os.DirFS.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }
