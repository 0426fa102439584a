// Package tui is an interactive terminal viewer for analysis results, with
// one tab per ranking and one for trust averages.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/trustgraph/internal/analysis"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a viewer program for res. The program uses the
// alternate screen buffer.
func NewProgram(input string, res *analysis.Result, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{tea.WithAltScreen()}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewModel(input, res), allOpts...)
}
