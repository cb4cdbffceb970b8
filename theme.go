package refiner

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Heading  int // Roadmap headings
	Accent   int // Titles, key hints
	Error    int // Error panel
	Success  int // Download notice
	Muted    int // Status bar, placeholders, metadata
	Progress int // Progress bar fill
	Code     int // Code spans and blocks
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Heading:  5,
		Accent:   4,
		Error:    1,
		Success:  2,
		Muted:    8,
		Progress: 6,
		Code:     3,
	}
}
