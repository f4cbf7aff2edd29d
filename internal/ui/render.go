package ui

import (
	"fmt"
	"strings"
)

// Printer renders command output. When Color is false all styling
// functions pass text through unchanged.
type Printer struct {
	Color bool
}

// NewPrinter returns a Printer with color enabled when stdout is a
// terminal.
func NewPrinter() *Printer {
	return &Printer{Color: IsTerminal()}
}

func (p *Printer) style(s styleFunc) styleFunc {
	if !p.Color {
		return plain
	}
	return s
}

// Title renders a bold heading line.
func (p *Printer) Title(text string) string {
	return p.style(sf(titleStyle))(text)
}

// OK renders a success line with a check mark.
func (p *Printer) OK(format string, args ...any) string {
	return fmt.Sprintf("%s %s", p.style(sf(okStyle))(checkMark), fmt.Sprintf(format, args...))
}

// Fail renders a failure line with a cross mark.
func (p *Printer) Fail(format string, args ...any) string {
	return fmt.Sprintf("%s %s", p.style(sf(failedStyle))(crossMark), fmt.Sprintf(format, args...))
}

// Warn renders a warning line.
func (p *Printer) Warn(format string, args ...any) string {
	return fmt.Sprintf("%s %s", p.style(sf(warningStyle))(warnMark), fmt.Sprintf(format, args...))
}

// Dim renders de-emphasized text.
func (p *Printer) Dim(text string) string {
	return p.style(sf(dimStyle))(text)
}

// Table renders rows as a column-aligned table. The header row is
// styled; column widths follow the widest cell.
func (p *Printer) Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style styleFunc) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			padded := cell + strings.Repeat(" ", widths[i]-len(cell))
			b.WriteString(style(padded))
		}
		b.WriteString("\n")
	}

	writeRow(header, p.style(sf(headerStyle)))
	for _, row := range rows {
		writeRow(row, plain)
	}
	return b.String()
}
