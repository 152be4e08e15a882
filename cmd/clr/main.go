package main

import (
	"fmt"
	"os"

	"github.com/knadh/koanf"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracekeys are the tracers of this module. Their levels are set by flag --trace.
var tracekeys = []string{"clr.cli", "clr.lr", "clr.scanner"}

// options holds the global command line flags.
type options struct {
	grammar  string // EBNF grammar file; empty for the built-in grammar
	start    string // start production
	level    string // trace level
	adapter  string // tracing backend
	capacity int    // initial parse stack capacity
}

func main() {
	initDisplay()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "clr",
		Short: "Canonical LR(1) parser generator",
		Long: `clr builds canonical LR(1) parse tables from grammars and parses input with them.

Without a grammar file, clr uses a built-in grammar for arithmetic
expressions, whose reduction actions evaluate the expression.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.grammar, "grammar", "g", "", "EBNF grammar file")
	flags.StringVarP(&opts.start, "start", "s", "", "start production of the grammar")
	flags.StringVar(&opts.level, "trace", "", "trace level [Debug|Info|Error]")
	flags.StringVar(&opts.adapter, "adapter", "", "tracing backend [go|logrus]")
	flags.IntVar(&opts.capacity, "stack", 0, "initial capacity of the parse stack")
	root.AddCommand(
		newBuildCommand(opts),
		newParseCommand(opts),
		newDotCommand(opts),
		newReplCommand(opts),
	)
	return root
}

// initConfig loads the application configuration and sets up tracing.
// Flags override configuration values.
func initConfig(opts *options) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	conf := koanfadapter.New(koanf.New("."), "clr", []string{".nt"})
	gconf.Initialize(conf)
	if opts.adapter != "" {
		conf.Set("tracing.adapter", opts.adapter)
	}
	if opts.capacity > 0 {
		conf.Set("parser-stack-capacity", opts.capacity)
	}
	for _, key := range tracekeys {
		if opts.level != "" {
			conf.Set("trace."+key, opts.level)
		} else if !conf.IsSet("trace." + key) {
			conf.Set("trace."+key, "Error")
		}
	}
	err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true))
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Debugf("tracing adapter is %q", conf.GetString("tracing.adapter"))
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
