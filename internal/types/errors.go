package types

import (
	"strconv"
	"strings"
)

type Phase int

const (
	ParsePhase Phase = iota
	RuntimePhase
)

func (p Phase) String() string {
	switch p {
	case ParsePhase:
		return "Parse"
	case RuntimePhase:
		return "Runtime"
	default:
		return "Unknown"
	}
}

type ErrorTag string

const (
	// parse errors
	UnexpectedTokenTag         ErrorTag = "UnexpectedToken"
	ExpectedExpressionTag      ErrorTag = "ExpectedExpression"
	InvalidAssignmentTargetTag ErrorTag = "InvalidAssignmentTarget"
	InvalidNumberTag           ErrorTag = "InvalidNumber"
	UnterminatedStringTag      ErrorTag = "UnterminatedString"
	UnrecognizedCharacterTag   ErrorTag = "UnrecognizedCharacter"

	// runtime errors
	TypeErrorTag         ErrorTag = "TypeError"
	UndefinedVariableTag ErrorTag = "UndefinedVariable"
)

// Exception is an error that can describe itself as plain data.
type Exception interface {
	error
	Exception() any
}

// Error is the single failure reported by a parse or an execution. Line is
// zero when no source line is known.
type Error struct {
	Phase Phase
	Tag   ErrorTag
	Line  int
	Err   error
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Phase.String())
	b.WriteString(" error: ")
	if e.Err == nil {
		b.WriteString(string(e.Tag))
	} else {
		b.WriteString(e.Err.Error())
	}
	if e.Line > 0 {
		b.WriteString(" at line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason returns the message without the phase label and line.
func (e *Error) Reason() string {
	if e.Err == nil {
		return string(e.Tag)
	}
	return e.Err.Error()
}

func (e *Error) Exception() any {
	o := map[string]any{
		"phase":   e.Phase.String(),
		"tag":     e.Tag,
		"message": e.Reason(),
	}
	if e.Line > 0 {
		o["line"] = e.Line
	}
	return o
}
