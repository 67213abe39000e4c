package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/dzx/internal/tasks"
)

var styles = NewPalette("#A238FF", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Phase picks the style for a progress line.
func (p *Palette) Phase(phase tasks.Phase) lipgloss.Style {
	switch phase {
	case tasks.DownloadTrack, tasks.Finished:
		return p.ok
	case tasks.SkipTrack:
		return p.warn
	case tasks.FailTrack:
		return p.err
	default:
		return p.help
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
