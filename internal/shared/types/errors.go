package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoData                = errors.New("no usage data found for the tracked resource")
	ErrTotalOutOfRange       = errors.New("percentages do not add up to roughly 100")
	ErrNegativeValue         = errors.New("percentages must be non-negative numbers")
	ErrUnsupportedReportType = errors.New("unsupported report type. Use one of: json, csv, pdf")
)

// CommandError indica que o comando de relatório não pôde ser executado
// ou terminou com status diferente de zero para uma janela.
type CommandError struct {
	Window   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("report command failed for %s (exit code %d): %v", e.Window, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("report command failed for %s (exit code %d): %s", e.Window, e.ExitCode, stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ParseError descreve uma linha do relatório que não pôde ser interpretada.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
