package main

import "github.com/charmbracelet/lipgloss"

// Monokai Pro accents.
const (
	colorRed     = "#FF6188"
	colorGreen   = "#A9DC76"
	colorYellow  = "#FFD866"
	colorMagenta = "#FF6188"
	colorComment = "#727072"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorMagenta))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(colorComment))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)).Bold(true)
)
