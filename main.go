package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/cespare/xxhash/v2"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/tinybasic/ast"
	"github.com/pontaoski/tinybasic/codegen"
	"github.com/pontaoski/tinybasic/config"
	"github.com/pontaoski/tinybasic/diagnostic"
	"github.com/pontaoski/tinybasic/lexer"
	"github.com/pontaoski/tinybasic/parser"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinybasic", "main")

type sourceLine struct {
	file   string
	number int
	text   string
}

type session struct {
	cfg   *config.Config
	color bool
}

// readLines collects the lines to process from --file or the arguments.
func readLines(c *cli.Context) ([]sourceLine, error) {
	file := c.String("file")
	if file == "" {
		var ret []sourceLine
		for i, arg := range c.Args().Slice() {
			ret = append(ret, sourceLine{file: fmt.Sprintf("<arg %d>", i+1), number: 1, text: arg})
		}
		return ret, nil
	}

	var r io.Reader = os.Stdin
	name := "<stdin>"
	if file != "-" {
		handle, err := os.Open(file)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		defer handle.Close()
		r, name = handle, file
	}

	var ret []sourceLine
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		ret = append(ret, sourceLine{file: name, number: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, tracerr.Wrap(err)
	}
	return ret, nil
}

func (s *session) report(c *cli.Context, l sourceLine, err error) {
	diagnostic.Render(c.App.ErrWriter, l.file, l.number, l.text, err, s.color)
}

func failed(n int) error {
	if n == 0 {
		return nil
	}
	return cli.Exit(fmt.Sprintf("%d line(s) failed", n), 1)
}

func (s *session) tokens(c *cli.Context) error {
	lines, err := readLines(c)
	if err != nil {
		return err
	}

	failures := 0
	for _, l := range lines {
		tokens, err := lexer.Tokenize(l.text, s.cfg)
		if err != nil {
			s.report(c, l, err)
			failures++
			continue
		}
		fmt.Fprintln(c.App.Writer, repr.String(tokens, repr.Indent("  ")))
	}
	return failed(failures)
}

func (s *session) parse(c *cli.Context) error {
	lines, err := readLines(c)
	if err != nil {
		return err
	}

	failures := 0
	for _, l := range lines {
		line, err := parser.ParseSource(l.text, s.cfg)
		if err != nil {
			s.report(c, l, err)
			failures++
			continue
		}

		canonical := line.String()
		switch {
		case c.Bool("digest"):
			fmt.Fprintf(c.App.Writer, "%016x  %s\n", xxhash.Sum64String(canonical), canonical)
		case c.Bool("canonical"):
			fmt.Fprintln(c.App.Writer, canonical)
		default:
			fmt.Fprintln(c.App.Writer, repr.String(line, repr.Indent("  ")))
		}
	}
	return failed(failures)
}

func (s *session) ir(c *cli.Context) error {
	lines, err := readLines(c)
	if err != nil {
		return err
	}

	var parsed []*ast.Line
	failures := 0
	for _, l := range lines {
		line, err := parser.ParseSource(l.text, s.cfg)
		if err != nil {
			s.report(c, l, err)
			failures++
			continue
		}
		parsed = append(parsed, line)
	}
	if failures > 0 {
		return failed(failures)
	}

	module, err := codegen.Generate(parsed)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprint(c.App.Writer, module.String())
	return nil
}

func (s *session) setup(c *cli.Context) error {
	s.cfg = config.Default()
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		s.cfg = cfg
	}
	if c.IsSet("log-level") {
		s.cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("color") {
		s.cfg.Color = config.ColorMode(c.String("color"))
	}
	if err := s.cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	level, _ := s.cfg.Level()
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(c.App.ErrWriter, level >= capnslog.DEBUG))
	capnslog.SetGlobalLogLevel(level)

	f, _ := c.App.ErrWriter.(*os.File)
	s.color = diagnostic.UseColor(s.cfg.Color, f)

	plog.Debugf("config: %+v", *s.cfg)
	return nil
}

func newApp() *cli.App {
	s := &session{}
	fileFlag := &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read one line per row from `FILE` (- for stdin)",
	}

	return &cli.App{
		Name:  "tinybasic",
		Usage: "tokenize and parse tiny BASIC lines",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "load settings from a .yaml or .toml `FILE`",
				EnvVars: []string{"TINYBASIC_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or TRACE",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "auto, always or never",
			},
		},
		Before: s.setup,
		ExitErrHandler: func(context *cli.Context, err error) {
			// exit codes are handled in main so the app can run under tests
		},
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "dump the tokens of each line",
				ArgsUsage: "[LINE...]",
				Flags:     []cli.Flag{fileFlag},
				Action:    s.tokens,
			},
			{
				Name:      "parse",
				Usage:     "dump the parse tree of each line",
				ArgsUsage: "[LINE...]",
				Flags: []cli.Flag{
					fileFlag,
					&cli.BoolFlag{
						Name:  "canonical",
						Usage: "print the canonical source instead of the tree",
					},
					&cli.BoolFlag{
						Name:  "digest",
						Usage: "print an xxhash digest of the canonical source",
					},
				},
				Action: s.parse,
			},
			{
				Name:      "ir",
				Usage:     "print the LLVM IR for a program",
				ArgsUsage: "[LINE...]",
				Flags:     []cli.Flag{fileFlag},
				Action:    s.ir,
			},
		},
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err == nil {
		return
	}
	if exit, ok := err.(cli.ExitCoder); ok {
		fmt.Fprintln(os.Stderr, "tinybasic:", exit.Error())
		os.Exit(exit.ExitCode())
	}
	tracerr.PrintSourceColor(err)
	os.Exit(1)
}
