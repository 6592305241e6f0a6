package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/graph-guard/omap/pkg/config"
	"github.com/graph-guard/omap/pkg/document"
)

const EnvLogLevel = "OMERGE_LOG_LEVEL"

// Command can be any of:
//
//	CommandMerge
//	CommandKeys
//	CommandHelp
type Command any

type CommandMerge struct {
	// ConfigPath is empty if no configuration file was provided.
	ConfigPath string
	// Format is empty if not provided.
	Format document.Format
	Strict bool
	// LogLevel is empty if not provided.
	LogLevel string
	Inputs   []string
}

type CommandKeys struct {
	Input    string
	LogLevel string
}

type CommandHelp struct{}

func Parse(w io.Writer, args []string) (cmd Command) {
	fm := fmt.Sprintf

	executableName := "omerge"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	flags := flag.NewFlagSet(executableName, flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		writeLines(w,
			fm("usage: %s <command> [flags]", executableName),
			"",
			"commands available:",
			" merge - merges documents preserving key order",
			" keys - lists the top-level keys of a document in order",
			" help - prints this help",
		)
	}

	parseFlags := func() (ok bool) {
		err := flags.Parse(args[2:])
		// flags will automatically call .Usage()
		return err == nil
	}

	if len(args) < 2 {
		flags.Usage()
		return nil
	}

	// Empty unless set, the configuration file may define it otherwise.
	logLevel := os.Getenv(EnvLogLevel)
	checkLogLevel := func() (ok bool) {
		if logLevel == "" || config.ValidLogLevel(logLevel) {
			return true
		}
		writeLines(w,
			fm("%s contains an invalid log level: %q", EnvLogLevel, logLevel),
			fm("expected one of: %s", strings.Join(config.LogLevels, ", ")),
		)
		return false
	}
	envUsage := fm("%s: log level (%s; default: %s)",
		EnvLogLevel,
		strings.Join(config.LogLevels, ", "),
		config.DefaultLogLevel,
	)

	switch args[1] {
	case "merge":
		if !checkLogLevel() {
			return nil
		}
		c := CommandMerge{LogLevel: logLevel}
		var format string

		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s merge [-config <path>] [-format yaml|json] "+
					"[-strict] <file>...", executableName),
				"",
				"flags:",
				"-config <path>: defines the configuration file path",
				"-format <format>: defines the output format "+
					"(default: yaml)",
				"-strict: fails on keys defined by more than one document",
				"",
				"environment variables:",
				envUsage,
			)
		}

		flags.StringVar(&c.ConfigPath, "config", "", "")
		flags.StringVar(&format, "format", "", "")
		flags.BoolVar(&c.Strict, "strict", false, "")
		if !parseFlags() {
			return nil
		}

		if format != "" {
			f, ok := document.ParseFormat(format)
			if !ok {
				writeLines(w, fm("unsupported format: %q", format))
				flags.Usage()
				return nil
			}
			c.Format = f
		}

		c.Inputs = flags.Args()
		for _, p := range c.Inputs {
			if _, ok := document.FormatFromPath(p); !ok {
				writeLines(w, fm("unsupported file extension: %q", p))
				flags.Usage()
				return nil
			}
		}
		if c.ConfigPath == "" && len(c.Inputs) < 1 {
			writeLines(w, "no input files")
			flags.Usage()
			return nil
		}

		cmd = c

	case "keys":
		if !checkLogLevel() {
			return nil
		}
		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s keys <file>", executableName),
				"",
				"environment variables:",
				envUsage,
			)
		}
		if !parseFlags() {
			return nil
		}
		if flags.NArg() != 1 {
			writeLines(w, "expected exactly one input file")
			flags.Usage()
			return nil
		}
		if _, ok := document.FormatFromPath(flags.Arg(0)); !ok {
			writeLines(w, fm("unsupported file extension: %q", flags.Arg(0)))
			flags.Usage()
			return nil
		}
		cmd = CommandKeys{Input: flags.Arg(0), LogLevel: logLevel}

	case "help":
		flags.Usage()
		return CommandHelp{}

	default:
		flags.Usage()
		return nil
	}
	return cmd
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}
