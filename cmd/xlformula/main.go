package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/xlformula"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()
	var (
		inname      string
		names       = xlformula.Names{}
		echo, debug bool
		depth       int
	)
	given := func(s string) error {
		nm, vl, err := definition(s)
		if err != nil {
			return err
		}
		if strings.HasPrefix(vl, "=") {
			// Keep formulas as text so they evaluate lazily, like a cell.
			names[nm] = xlformula.Str(vl)
			return nil
		}
		names[nm] = xlformula.Parse(vl).Eval(nil)
		return nil
	}
	date := func(s string) error {
		nm, vl, err := definition(s)
		if err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, vl)
		if err != nil {
			return fmt.Errorf("date for %s: %w", nm, err)
		}
		names[nm] = xlformula.Date(t)
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file, one formula per line (default stdin if no args given)")
	flag.Func("given", "name=value definition; a value beginning with = is a formula (any number of times)", given)
	flag.Func("date", "name=RFC3339 date definition (any number of times)", date)
	flag.IntVar(&depth, "depth", xlformula.DefaultMaxDepth, "maximum depth of nested formulas; 0 for no limit")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&debug, "v", false, "log evaluation details")
	flag.Parse()

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log = log.Level(level)

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal().Err(err).Msg("opening input")
	}
	if f != nil {
		lines, err := readlines(f)
		if err != nil {
			log.Fatal().Err(err).Msg("reading input")
		}
		srcs = append(srcs, lines...)
	}
	srcs = append(srcs, flag.Args()...)

	opts := []xlformula.EvalOption{xlformula.MaxDepth(depth), xlformula.Logger(log)}
	for _, src := range srcs {
		a := xlformula.Parse(src)
		if err := a.Err(); err != nil {
			log.Debug().Err(err).Msg("parse failed")
		}
		if echo {
			fmt.Printf("%v : ", a)
		}
		r := a.Eval(names, opts...)
		if r.IsError() {
			log.Debug().Str("formula", src).Err(r.Cause()).Msg("evaluation error")
		}
		fmt.Println(xlformula.Render(r))
	}
}

func definition(s string) (name, value string, err error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", "", fmt.Errorf(`definitions must be "name=value", not %q`, s)
	}
	return strings.TrimSpace(d[0]), strings.TrimSpace(d[1]), nil
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

func readlines(r io.Reader) ([]string, error) {
	var lines []string
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scan.Err()
}
