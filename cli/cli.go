package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/sokinpui/socpatch/internal/errs"
)

// Config holds all the command-line flag values.
type Config struct {
	Platform   string
	Root       string
	ConfigPath string
	Check      bool
	PushSource bool
	NoCopy     bool
	Strict     bool
	Plain      bool
	Report     string
	Clipboard  bool
	LogFile    string
	History    bool
	NoHistory  bool
	Verbose    bool
}

// Usage prints the command synopsis and flag defaults to w.
func Usage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: socpatch [flags] <PLATFORM>")
	fmt.Fprintln(w, "\nReset the mapped git checkouts, apply the platform's patches and copy its product files.")
	fmt.Fprintln(w, "\nExample: socpatch R818")
	fmt.Fprintln(w, "\nFlags:")
	fmt.Fprint(w, flags.FlagUsages())
}

// NewFlagSet defines the flags of the command and binds them to cfg.
func NewFlagSet(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("socpatch", pflag.ContinueOnError)

	flags.StringVar(&cfg.Root, "root", "", "Project root (default: four levels above the current directory).")
	flags.StringVarP(&cfg.ConfigPath, "config", "f", "", "YAML file overriding platforms, layout and copy rules.")
	flags.BoolVar(&cfg.Check, "check", false, "Run 'git apply --check' before applying and skip repositories that would not apply.")
	flags.BoolVar(&cfg.PushSource, "push-source", false, "Also copy patches/code/<repo> trees into their repositories.")
	flags.BoolVar(&cfg.NoCopy, "no-copy", false, "Skip copying the product definition JSON files.")
	flags.BoolVar(&cfg.Strict, "strict", false, "Exit with status 1 when any git or cp command fails.")
	flags.BoolVarP(&cfg.Plain, "plain", "p", false, "Disable the interactive progress display.")
	flags.StringVarP(&cfg.Report, "report", "o", "", "Write a Markdown report to this file (.html renders HTML).")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Copy the Markdown report to the clipboard.")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Append a JSON log of every command to this file.")
	flags.BoolVar(&cfg.History, "history", false, "Print the recorded runs of this project and exit.")
	flags.BoolVar(&cfg.NoHistory, "no-history", false, "Do not record this run. By default every run appends to <root>/.socpatch/history, creating it if needed.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log debug details, including every command.")

	return flags
}

// ParseFlags parses args (without the program name). A missing platform
// is left empty; more than one positional argument is a usage error.
func ParseFlags(args []string) (*Config, *pflag.FlagSet, error) {
	cfg := &Config{}
	flags := NewFlagSet(cfg)
	flags.SetOutput(io.Discard)

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return cfg, flags, err
		}
		return cfg, flags, errs.New(errs.KindUsage, "invalid arguments", err)
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		cfg.Platform = rest[0]
	default:
		return cfg, flags, errs.Usage("expected one platform, got %d arguments", len(rest))
	}

	if cfg.History && cfg.NoHistory {
		return cfg, flags, errs.Usage("--history and --no-history are mutually exclusive")
	}
	return cfg, flags, nil
}
