// Command hvmllex drives the tokenizer package over one or more HVML
// files and prints the resulting token stream: a go-flags option struct,
// an optional config file applied to every tokenizer, and log.Fatal for
// argument errors.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/hvml-lang/tokenizer/config"
	"github.com/hvml-lang/tokenizer/tokenizer"
	"github.com/hvml-lang/tokenizer/util"
)

var version string

type options struct {
	Config  string `long:"config" description:"YAML file with tokenizer tuning knobs (flush threshold, extra named references, default charset)" value-name:"config_file"`
	DumpVCM bool   `long:"dump-vcm" description:"Pretty-print each VCM_TREE token's node tree with k0kubun/pp instead of a one-line summary"`
	Verbose bool   `long:"verbose" description:"Also log each parse error through the tokenizer's stdout logger, and log the config's extra named references"`
	NoColor bool   `long:"no-color" description:"Disable ANSI color even when stdout is a terminal"`
	Help    bool   `long:"help" description:"Show this help"`
	Version bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] file.hvml ..."
	rest, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if len(rest) == 0 {
		fmt.Print("No input file is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	return opts, rest
}

func main() {
	opts, files := parseOptions(os.Args[1:])

	fileOptions, err := config.Load(opts.Config)
	if err != nil {
		log.Fatal(err)
	}

	useColor := !opts.NoColor && term.IsTerminal(int(os.Stdout.Fd())) && isatty.IsTerminal(os.Stdout.Fd())
	var out io.Writer = colorable.NewNonColorable(os.Stdout)
	if useColor {
		out = colorable.NewColorable(os.Stdout)
	}

	if opts.Verbose {
		for _, name := range fileOptions.SortedExtraReferenceNames() {
			log.Printf("config: extra named reference %q -> %q", name, fileOptions.ExtraNamedReferences[name])
		}
	}

	results := util.TransformSlice(files, func(path string) bool {
		return runFile(path, fileOptions, opts, out, useColor)
	})
	exitCode := 0
	for _, ok := range results {
		if !ok {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func runFile(path string, fileOptions config.Options, opts options, out io.Writer, useColor bool) bool {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("%s: %s", path, err)
		return false
	}
	defer f.Close()

	printer := &dumpSink{out: out, path: path, color: useColor, dumpVCM: opts.DumpVCM, verbose: opts.Verbose}
	t := tokenizer.New(f, printer)
	fileOptions.ApplyTo(t)
	if opts.Verbose {
		t.SetLogger(tokenizer.StdoutLogger{})
	}
	printer.runID = t.RunID

	t.Run()
	return printer.errorCount == 0
}

// dumpSink implements tokenizer.Sink, printing one line per token (or a
// pp-formatted node tree for VCM_TREE, with --dump-vcm) and accumulating
// parse errors so runFile can report a nonzero exit status without
// panicking.
type dumpSink struct {
	out        io.Writer
	path       string
	runID      string
	color      bool
	dumpVCM    bool
	verbose    bool
	errorCount int
}

func (d *dumpSink) OnToken(tok tokenizer.Token) {
	if tok.Kind == tokenizer.KindVCMTree && d.dumpVCM {
		pp.Fprintln(d.out, tok.Root)
		return
	}
	fmt.Fprintf(d.out, "%s %d:%d-%d:%d %s\n", tok.Kind, tok.Start.Line, tok.Start.Col, tok.End.Line, tok.End.Col, tokenSummary(tok))
}

func (d *dumpSink) OnParseError(kind tokenizer.ErrorKind, pos tokenizer.Position) {
	d.errorCount++
	perr := tokenizer.ParseError{Kind: kind, Pos: pos, RunID: d.runID}
	if d.color {
		fmt.Fprintf(d.out, "\x1b[31m%s: %s\x1b[0m\n", d.path, perr)
		return
	}
	fmt.Fprintf(d.out, "%s: %s\n", d.path, perr)
}

func tokenSummary(tok tokenizer.Token) string {
	switch tok.Kind {
	case tokenizer.KindStartTag, tokenizer.KindEndTag:
		return tok.Name
	case tokenizer.KindComment:
		return tok.CommentData
	case tokenizer.KindCharacter:
		return string(tok.Text)
	case tokenizer.KindDOCTYPE:
		return tok.DoctypeName
	default:
		return ""
	}
}
