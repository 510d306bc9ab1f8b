package main

import (
	"fmt"
	"io"

	"todoTracker/internal/models/todo"

	"github.com/charmbracelet/lipgloss"
)

// printer стили привязаны к writer: в pipe и файл уходит обычный текст
type printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	header lipgloss.Style
	done   lipgloss.Style
	muted  lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:      w,
		r:      r,
		header: r.NewStyle().Bold(true),
		done:   r.NewStyle().Faint(true).Strikethrough(true),
		muted:  r.NewStyle().Faint(true),
	}
}

func shortID(t todo.Todo) string {
	return t.ID.String()[:8]
}

func (p *printer) swatch(c todo.Color) string {
	return p.r.NewStyle().Background(lipgloss.Color(string(c))).Render("  ")
}

func (p *printer) list(header string, list []todo.Todo) {
	fmt.Fprintln(p.w, p.header.Render(fmt.Sprintf("%s (%d)", header, len(list))))
	if len(list) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("  пусто"))
		return
	}
	for _, t := range list {
		p.todo(t)
	}
}

func (p *printer) todo(t todo.Todo) {
	mark, title := "[ ]", t.Title
	if t.Completed {
		mark, title = "[x]", p.done.Render(t.Title)
	}

	line := fmt.Sprintf("  %s %s %s %s", p.swatch(t.Color), shortID(t), mark, title)
	if t.EndDate != nil {
		line += p.muted.Render("  до " + todo.FormatDate(t.EndDate))
	}
	fmt.Fprintln(p.w, line)

	if t.Description != nil {
		fmt.Fprintln(p.w, p.muted.Render("      "+*t.Description))
	}
}
