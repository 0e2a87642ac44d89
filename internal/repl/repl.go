package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// REPL reads source text line by line and hands each line to Eval. A failing
// line is reported on Err and the loop continues with the next one.
type REPL struct {
	Eval func(source string) error

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Prompt is written to Out before each line; empty disables it.
	Prompt string
	// ErrorColor decorates error lines; nil writes them plain.
	ErrorColor *color.Color
}

// Run loops until In is exhausted. It returns the number of lines that failed.
func (r *REPL) Run() (failures int, err error) {
	reader := bufio.NewReader(r.In)
	for {
		if r.Prompt != "" {
			if _, err := io.WriteString(r.Out, r.Prompt); err != nil {
				return failures, fmt.Errorf("io.WriteString: %w", err)
			}
		}

		// lines are unbounded; a final line without a newline still runs
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return failures, fmt.Errorf("bufio.Reader.ReadString: %w", readErr)
		}
		if readErr == io.EOF && line == "" {
			break
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if evalErr := r.Eval(line); evalErr != nil {
			failures++
			if err := r.report(evalErr); err != nil {
				return failures, err
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	if r.Prompt != "" {
		// leave the terminal on a fresh line after EOF
		if _, err := io.WriteString(r.Out, "\n"); err != nil {
			return failures, fmt.Errorf("io.WriteString: %w", err)
		}
	}
	return failures, nil
}

func (r *REPL) report(evalErr error) error {
	var err error
	if r.ErrorColor != nil {
		_, err = r.ErrorColor.Fprintln(r.Err, evalErr.Error())
	} else {
		_, err = fmt.Fprintln(r.Err, evalErr.Error())
	}
	if err != nil {
		return fmt.Errorf("fmt.Fprintln: %w", err)
	}
	return nil
}
