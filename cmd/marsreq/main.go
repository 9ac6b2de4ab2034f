// Command marsreq parses MARS requests from argv or stdin, expands
// them against the embedded default grammar, and prints the canonical
// form of each.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/metquery/marslang"
	"github.com/metquery/marslang/paramresolver"
)

var cli struct {
	Request []string `arg:"" optional:"" help:"Request text (one or more 'verb,key=value,...' arguments). Reads stdin if omitted."`

	NoInherit bool `help:"Skip keyword defaulting and cross-keyword inheritance." name:"no-inherit"`
	Strict    bool `help:"Reject abbreviated verb/keyword names; require exact matches." env:"METKIT_LANGUAGE_STRICT_MODE"`
	Verbose   bool `short:"v" help:"Log diagnostics (alias redefinitions, ambiguous matches, resolver fallbacks) to stderr."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("marsreq"),
		kong.Description("Expand MARS requests against the embedded default grammar."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		logger := log.NewLogfmtLogger(os.Stderr)
		logger = level.NewFilter(logger, level.AllowDebug())
		paramresolver.Logger = logger
	}

	text, err := requestText()
	if err != nil {
		fatal(err)
	}

	reqs, err := marslang.ParseAll(text)
	if err != nil {
		fatal(err)
	}

	exp, err := marslang.NewExpansion(
		marslang.WithInherit(!cli.NoInherit),
		marslang.WithStrict(cli.Strict),
	)
	if err != nil {
		fatal(err)
	}

	for _, parsed := range reqs {
		expanded, err := exp.Expand(parsed.Request)
		if err != nil {
			fatal(fmt.Errorf("line %d: %w", parsed.Line, err))
		}
		fmt.Println(marslang.String(expanded))
	}
}

func requestText() (string, error) {
	if len(cli.Request) > 0 {
		out := cli.Request[0]
		for _, r := range cli.Request[1:] {
			out += "\n" + r
		}
		return out, nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "marsreq:", err)
	os.Exit(1)
}
