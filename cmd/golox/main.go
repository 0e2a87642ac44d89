package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/golox/internal/ast"
	"github.com/karupanerura/golox/internal/config"
	"github.com/karupanerura/golox/internal/interpreter"
	"github.com/karupanerura/golox/internal/repl"
	"github.com/karupanerura/golox/internal/server"
	"github.com/karupanerura/golox/internal/types"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK           = 0
	exitUsage        = 1
	exitParseError   = 65
	exitRuntimeError = 70
)

type Option struct {
	Eval    string `short:"e" long:"eval" description:"[OPTIONAL] Source text to run" required:"false"`
	Config  string `short:"c" long:"config" description:"[OPTIONAL] Session config file (YAML or JSON)" required:"false"`
	Tokens  bool   `long:"tokens" description:"[OPTIONAL] Print tokens instead of running"`
	AST     bool   `long:"ast" description:"[OPTIONAL] Print syntax trees instead of running"`
	DumpEnv bool   `long:"dump-env" description:"[OPTIONAL] Print variables as JSON after running"`
	Listen  string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve sessions API" required:"false"`
	Debug   bool   `long:"debug" description:"[OPTIONAL] Dump parser and environment state"`
}

func main() {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.run(os.Args[1:]))
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	errorColor *color.Color
}

func (c *cli) run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [script...]"
	scripts, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return exitOK
		} else {
			parser.WriteHelp(c.stdout)
			return exitUsage
		}
	}
	if opt.Eval != "" && len(scripts) != 0 {
		parser.WriteHelp(c.stdout)
		return exitUsage
	}
	if opt.Listen != "" && (opt.Eval != "" || len(scripts) != 0 || opt.Tokens || opt.AST || opt.DumpEnv) {
		parser.WriteHelp(c.stdout)
		return exitUsage
	}
	if opt.Tokens && opt.AST {
		parser.WriteHelp(c.stdout)
		return exitUsage
	}

	cfg := config.Default()
	if opt.Config != "" {
		if cfg, err = config.Load(opt.Config); err != nil {
			log.Printf("failed to load config: %v", err)
			return exitUsage
		}
	}
	debug := opt.Debug || cfg.Debug

	useColor := isTerminal(c.stderr)
	if cfg.Color != nil {
		useColor = *cfg.Color
	}
	c.errorColor = color.New(color.FgRed)
	if useColor {
		c.errorColor.EnableColor()
	} else {
		c.errorColor.DisableColor()
	}

	setup := func(s *interpreter.Session) error {
		s.Debug = debug
		return s.DefineGlobals(cfg.Globals)
	}

	// server mode
	if opt.Listen != "" {
		if err = serveSessions(opt.Listen, setup); err != nil {
			log.Printf("failed to serve sessions: %v", err)
			return exitUsage
		}
		return exitOK
	}

	session := interpreter.NewSession(c.stdout)
	if err = setup(session); err != nil {
		log.Printf("failed to define globals: %v", err)
		return exitUsage
	}

	eval := session.Run
	switch {
	case opt.Tokens:
		eval = func(source string) error {
			return c.printTokens(session, source)
		}
	case opt.AST:
		eval = func(source string) error {
			return c.printAST(session, source)
		}
	}

	var sources []string
	switch {
	case opt.Eval != "":
		sources = []string{opt.Eval}
	case len(scripts) != 0:
		if sources, err = readScripts(scripts); err != nil {
			log.Printf("failed to read scripts: %v", err)
			return exitUsage
		}
	default:
		r := &repl.REPL{
			Eval:       eval,
			In:         c.stdin,
			Out:        c.stdout,
			Err:        c.stderr,
			ErrorColor: c.errorColor,
		}
		if isTerminal(c.stdin) {
			r.Prompt = cfg.Prompt
		}
		if _, err = r.Run(); err != nil {
			log.Printf("failed to run REPL: %v", err)
			return exitUsage
		}
	}

	for _, source := range sources {
		if err = eval(source); err != nil {
			return c.reportError(err, debug)
		}
	}

	if opt.DumpEnv {
		if err = dumpJSON(c.stdout, session.Environment().Snapshot()); err != nil {
			log.Printf("failed to dump environment: %v", err)
			return exitUsage
		}
	}
	return exitOK
}

func (c *cli) printTokens(session *interpreter.Session, source string) error {
	for _, tok := range session.Tokens(source) {
		if _, err := fmt.Fprintln(c.stdout, tok.String()); err != nil {
			return fmt.Errorf("fmt.Fprintln: %w", err)
		}
	}
	return nil
}

func (c *cli) printAST(session *interpreter.Session, source string) error {
	stmts, err := session.AST(source)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := fmt.Fprintln(c.stdout, ast.RenderStmt(stmt)); err != nil {
			return fmt.Errorf("fmt.Fprintln: %w", err)
		}
	}
	return nil
}

func (c *cli) reportError(err error, debug bool) int {
	var langErr *types.Error
	if !errors.As(err, &langErr) {
		log.Printf("failed to run source: %v", err)
		return exitUsage
	}

	if _, err = c.errorColor.Fprintln(c.stderr, langErr.Error()); err != nil {
		log.Printf("failed to report error: %v", err)
	}
	if debug {
		if err = dumpJSON(c.stderr, langErr.Exception()); err != nil {
			log.Printf("failed to dump error as JSON: %v", err)
		}
	}

	if langErr.Phase == types.ParsePhase {
		return exitParseError
	}
	return exitRuntimeError
}

// readScripts loads every file concurrently and returns the contents in
// argument order.
func readScripts(paths []string) ([]string, error) {
	sources := make([]string, len(paths))

	var eg errgroup.Group
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("os.ReadFile(%q): %w", path, err)
			}
			sources[i] = string(b)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

func serveSessions(listen string, setup func(*interpreter.Session) error) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(setup),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if isTerminal(w) {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
