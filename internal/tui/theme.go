package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	border      lipgloss.Style
	modal       lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	head        lipgloss.Style
	footer      lipgloss.Style
	ok          lipgloss.Style
	bad         lipgloss.Style
	logLine     lipgloss.Style
}

func defaultTheme() Theme {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Theme{
		border:      b.BorderForeground(lipgloss.Color("63")),
		modal:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("219")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:       lipgloss.NewStyle().Faint(true),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		footer:      lipgloss.NewStyle().Faint(true),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		logLine:     lipgloss.NewStyle(),
	}
}

func themePresets() []Theme {
	dark := defaultTheme()
	light := Theme{
		border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("240")),
		modal:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("162")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("162")).Bold(true),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		logLine:     lipgloss.NewStyle(),
	}
	return []Theme{dark, light}
}

func themeByName(name string) Theme {
	presets := themePresets()
	names := []string{"dark", "light"}
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return presets[i%len(presets)]
		}
	}
	return presets[0]
}
