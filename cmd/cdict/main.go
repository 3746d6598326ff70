// Command cdict compiles a dictionary (a list of strings, one per line) into a
// minimal acyclic finite-state automaton and dumps it.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/milden6/numdawg"
)

func main() {
	log.SetPrefix("cdict: ")

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config, stdin io.Reader, stdout io.Writer) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.verbose {
		logger = log.Default()
	}

	words, err := readWords(cfg.dictFile, stdin)
	if err != nil {
		return err
	}
	logger.Printf("read %d words", len(words))

	if cfg.sort {
		sort.Strings(words)
	}

	logger.Print("starting automaton construction")
	start := time.Now()

	b := numdawg.New()
	for i, word := range words {
		if cfg.check && !b.CanAdd(word) {
			return fmt.Errorf("line %d: %q is out of order", i+1, word)
		}
		b.AddWord(word)
	}

	var a *numdawg.Automaton
	if cfg.plain {
		a = b.Build()
	} else {
		a = b.ToHashBuilder().Build()
	}
	logger.Printf("done building automaton in %v: %d words, %d states, %d transitions",
		time.Since(start), a.NumWords(), a.NumStates(), a.NumTransitions())

	if cfg.output != "" {
		n, err := a.Save(cfg.output)
		if err != nil {
			return fmt.Errorf("save %s: %w", cfg.output, err)
		}
		logger.Printf("wrote %d bytes to %s", n, cfg.output)
	}

	return dump(cfg.format, a, stdout)
}

func readWords(dictFile string, stdin io.Reader) ([]string, error) {
	src := stdin
	if dictFile != "" {
		f, err := os.Open(dictFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}

	var words []string
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		word := scanner.Text()
		if !utf8.ValidString(word) {
			return nil, fmt.Errorf("line %d: %q is not valid UTF-8", line, word)
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read words: %w", err)
	}
	return words, nil
}

func dump(format string, a *numdawg.Automaton, w io.Writer) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a.Snapshot()); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	}
	return a.Dump(w)
}
