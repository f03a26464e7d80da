package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type viewStyles struct {
	titleBar  lipgloss.Style
	statusBar lipgloss.Style
	statusOK  lipgloss.Style
	errorText lipgloss.Style
}

func newViewStyles() viewStyles {
	return viewStyles{
		titleBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		statusOK: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// newReportDelegate highlights the selected report in the primary accent
// color.
func newReportDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(lipgloss.Color("51")).
		BorderLeftForeground(lipgloss.Color("51"))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(lipgloss.Color("45")).
		BorderLeftForeground(lipgloss.Color("51"))
	return d
}
