package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// printer writes styled lines to w.
type printer struct {
	w io.Writer
}

// Success prints a success message
func (p printer) Success(format string, args ...any) {
	fmt.Fprint(p.w, successStyle.Render("✓ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error prints an error message
func (p printer) Error(format string, args ...any) {
	fmt.Fprint(p.w, errorStyle.Render("✗ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Info prints an info message
func (p printer) Info(format string, args ...any) {
	fmt.Fprint(p.w, infoStyle.Render("ℹ "))
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func (p printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, primaryStyle.Render(title))
}

// Table renders rows under headers with a rounded border.
func (p printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(p.w, t.Render())
}
