package styles

// Built-in theme names.
const (
	ThemeDark         = "dark"
	ThemeLight        = "light"
	ThemeHighContrast = "high-contrast"
	ThemeCustom       = "custom"
)

// NewDarkTheme creates the default dark theme.
func NewDarkTheme() *Theme {
	return &Theme{
		Name:   ThemeDark,
		IsDark: true,

		// Indigo/teal tones
		Primary:   ParseHex("#7aa2f7"), // Soft indigo
		Secondary: ParseHex("#2ac3de"), // Teal
		Tertiary:  ParseHex("#414868"), // Dark slate
		Accent:    ParseHex("#bb9af7"), // Violet accent

		BgBase:    ParseHex("#1a1b26"),
		BgSubtle:  ParseHex("#24283b"),
		BgOverlay: ParseHex("#2f3549"),

		FgBase:   ParseHex("#c0caf5"),
		FgMuted:  ParseHex("#787c99"),
		FgSubtle: ParseHex("#565a6e"),

		Border:      ParseHex("#414868"),
		BorderFocus: ParseHex("#7aa2f7"),

		Success: ParseHex("#9ece6a"),
		Error:   ParseHex("#f7768e"),
		Warning: ParseHex("#e0af68"),
		Info:    ParseHex("#7aa2f7"),
	}
}

// NewLightTheme creates the light theme.
func NewLightTheme() *Theme {
	return &Theme{
		Name:   ThemeLight,
		IsDark: false,

		Primary:   ParseHex("#2e7de9"),
		Secondary: ParseHex("#007197"),
		Tertiary:  ParseHex("#a1a6c5"),
		Accent:    ParseHex("#9854f1"),

		BgBase:    ParseHex("#e1e2e7"),
		BgSubtle:  ParseHex("#d5d6db"),
		BgOverlay: ParseHex("#c8c9ce"),

		FgBase:   ParseHex("#3760bf"),
		FgMuted:  ParseHex("#6172b0"),
		FgSubtle: ParseHex("#848cb5"),

		Border:      ParseHex("#a1a6c5"),
		BorderFocus: ParseHex("#2e7de9"),

		Success: ParseHex("#587539"),
		Error:   ParseHex("#f52a65"),
		Warning: ParseHex("#8c6c3e"),
		Info:    ParseHex("#2e7de9"),
	}
}

// NewHighContrastTheme creates a dark theme with maximum contrast for
// accessibility.
func NewHighContrastTheme() *Theme {
	return &Theme{
		Name:   ThemeHighContrast,
		IsDark: true,

		Primary:   ParseHex("#00ffff"),
		Secondary: ParseHex("#ffff00"),
		Tertiary:  ParseHex("#808080"),
		Accent:    ParseHex("#ff00ff"),

		BgBase:    ParseHex("#000000"),
		BgSubtle:  ParseHex("#121212"),
		BgOverlay: ParseHex("#1f1f1f"),

		FgBase:   ParseHex("#ffffff"),
		FgMuted:  ParseHex("#d0d0d0"),
		FgSubtle: ParseHex("#a0a0a0"),

		Border:      ParseHex("#ffffff"),
		BorderFocus: ParseHex("#00ffff"),

		Success: ParseHex("#00ff00"),
		Error:   ParseHex("#ff4040"),
		Warning: ParseHex("#ffff00"),
		Info:    ParseHex("#00ffff"),
	}
}

// NewCustomTheme builds a theme from four user-chosen colors, deriving the
// remaining palette slots. Whether the theme is dark follows from the
// background luminance.
func NewCustomTheme(primary, background, foreground, accent string) *Theme {
	p := ParseHex(primary)
	bg := ParseHex(background)
	fg := ParseHex(foreground)
	ac := ParseHex(accent)

	dark := isDarkColor(bg)

	// Subtle and overlay backgrounds step away from the base; foreground
	// variants step toward it.
	shift := Lighten
	fade := Darken
	if !dark {
		shift = Darken
		fade = Lighten
	}

	return &Theme{
		Name:   ThemeCustom,
		IsDark: dark,

		Primary:   p,
		Secondary: shift(p, 0.2),
		Tertiary:  shift(bg, 0.25),
		Accent:    ac,

		BgBase:    bg,
		BgSubtle:  shift(bg, 0.06),
		BgOverlay: shift(bg, 0.12),

		FgBase:   fg,
		FgMuted:  fade(fg, 0.3),
		FgSubtle: fade(fg, 0.5),

		Border:      shift(bg, 0.25),
		BorderFocus: p,

		Success: ParseHex("#9ece6a"),
		Error:   ParseHex("#f7768e"),
		Warning: ParseHex("#e0af68"),
		Info:    p,
	}
}
