package main

import (
	"flag"
	"fmt"
	"io"
)

const usage = `Usage: cdict [options] [DICT_FILE]
Compile a word list, one word per line, into a minimal acyclic automaton and
print it. If no DICT_FILE is given, the words are read from standard input.
Words must already be sorted unless -sort is given.

Options:
`

type config struct {
	dictFile string // empty means standard input
	format   string
	plain    bool
	check    bool
	sort     bool
	output   string
	verbose  bool
}

func parseConfig(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}

	fs := flag.NewFlagSet("cdict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.format, "format", "text", "output format: text or yaml")
	fs.BoolVar(&cfg.plain, "plain", false, "build a plain recognizer, without ranks")
	fs.BoolVar(&cfg.check, "check", false, "fail on the first word that is out of order")
	fs.BoolVar(&cfg.sort, "sort", false, "sort the words before building")
	fs.StringVar(&cfg.output, "o", "", "also save the automaton to `FILE`")
	fs.BoolVar(&cfg.verbose, "v", false, "log progress to standard error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.dictFile = fs.Arg(0)
	default:
		fs.Usage()
		return nil, fmt.Errorf("expected at most one DICT_FILE, got %d arguments", fs.NArg())
	}

	if cfg.format != "text" && cfg.format != "yaml" {
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}

	return cfg, nil
}
