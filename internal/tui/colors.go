package tui

// Color constants for the wrkout TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Logo, accent elements, active borders
	ColorAccentBright = "#A78BFA" // Clock digits, highlights

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E" // In progress
	ColorWarning = "#F59E0B" // Paused
)
