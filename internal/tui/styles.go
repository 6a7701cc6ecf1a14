// Package tui provides an interactive terminal browser for extracted dictionaries.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette. Field colors follow the ink of the printed dictionary.
var (
	ColorWord   = lipgloss.Color("#ffe66d") // Head word
	ColorIPA    = lipgloss.Color("#ff6b6b") // Red-ink pronunciation
	ColorTrans  = lipgloss.Color("#f1faee") // Black transcription
	ColorPOS    = lipgloss.Color("#a8e6cf") // Green part of speech
	ColorMuted  = lipgloss.Color("#666666")
	ColorLabel  = lipgloss.Color("#a8dadc")
	ColorBg     = lipgloss.Color("#1a1a2e")
	ColorBgAlt  = lipgloss.Color("#2d3436")
	ColorBorder = lipgloss.Color("#3d5a80")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorIPA).
			Background(ColorBg).
			Padding(0, 1)

	CountStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)

// List pane
var (
	ListStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ColorTrans)

	ItemActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWord).
			Background(ColorBgAlt)

	IDStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// Detail pane
var (
	BigWordStyle = lipgloss.NewStyle().
			Foreground(ColorWord).
			Margin(1, 0)

	WordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWord).
			Background(ColorBgAlt).
			Padding(1, 4).
			Margin(1, 0)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Bold(true).
			Width(15)

	IPAStyle = lipgloss.NewStyle().
			Foreground(ColorIPA)

	TransStyle = lipgloss.NewStyle().
			Foreground(ColorTrans).
			Italic(true)

	POSStyle = lipgloss.NewStyle().
			Foreground(ColorPOS).
			Bold(true)

	GlossStyle = lipgloss.NewStyle().
			Foreground(ColorTrans)

	DetailStyle = lipgloss.NewStyle().
			Padding(0, 2)
)

// Status
var (
	SearchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWord).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorIPA).
			Bold(true)

	CopiedStyle = lipgloss.NewStyle().
			Foreground(ColorPOS).
			Bold(true)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)
