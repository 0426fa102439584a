package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent     = lipgloss.Color("#FFD700") // Gold: highlighted values
	colorSuccess    = lipgloss.Color("#00E676") // Green: positive trust
	colorDanger     = lipgloss.Color("#FF5252") // Red: negative trust
	colorMuted      = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorWhite      = lipgloss.Color("#EEEEEE") // Off-white: primary text
	colorSurface    = lipgloss.Color("#1E1E2E") // Dark surface: status bar bg
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleTabActive = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleTabInactive = lipgloss.NewStyle().
				Foreground(colorMuted)

	styleHeaderRow = lipgloss.NewStyle().
			Foreground(colorMutedLight).
			Bold(true)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	stylePositive = lipgloss.NewStyle().Foreground(colorSuccess)
	styleNegative = lipgloss.NewStyle().Foreground(colorDanger)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2)
)
