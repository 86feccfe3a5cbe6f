package theme

import "github.com/dshills/keycraft/internal/color"

// DefaultID is the theme selected when none is configured.
const DefaultID = "nord"

// Builtin returns the built-in themes in display order.
func Builtin() []Theme {
	return []Theme{nord(), catppuccin(), rosePine(), gruvbox(), classic()}
}

func nord() Theme {
	return Theme{
		ID:          "nord",
		Name:        "Nord",
		Description: "Arctic, north-bluish clean and elegant",
		Colors: Colors{
			Background: "#2e3440",
			Surface:    "#3b4252",
			Border:     "#4c566a",
			Text:       "#eceff4",
			TextMuted:  "#d8dee9",
			Accent:     "#5e81ac",
			KeycapColors: []string{
				"#2e3440", "#3b4252", "#434c5e", "#4c566a", // polar night
				"#d8dee9", "#e5e9f0", "#eceff4", // snow storm
				"#8fbcbb", "#88c0d0", "#81a1c1", "#5e81ac", // frost
				"#bf616a", "#d08770", "#ebcb8b", "#a3be8c", "#b48ead", // aurora
			},
			CableColors: []string{
				"#2e3440", "#4c566a", "#5e81ac", "#88c0d0",
				"#bf616a", "#d08770", "#ebcb8b", "#a3be8c",
			},
		},
	}
}

func catppuccin() Theme {
	return Theme{
		ID:          "catppuccin",
		Name:        "Catppuccin Mocha",
		Description: "Soothing pastel theme for the high-spirited",
		Colors: Colors{
			Background: "#1e1e2e",
			Surface:    "#313244",
			Border:     "#45475a",
			Text:       "#cdd6f4",
			TextMuted:  "#bac2de",
			Accent:     "#cba6f7",
			KeycapColors: []string{
				"#1e1e2e", "#313244", "#45475a", "#585b70", "#6c7086",
				"#7f849c", "#9399b2", "#a6adc8", "#bac2de", "#cdd6f4",
				"#f38ba8", "#eba0ac", "#fab387", "#f9e2af", "#a6e3a1",
				"#94e2d5", "#89dceb", "#74c7ec", "#89b4fa", "#cba6f7",
				"#f2cdcd",
			},
			CableColors: []string{
				"#1e1e2e", "#45475a", "#cba6f7", "#89b4fa",
				"#f38ba8", "#fab387", "#a6e3a1", "#94e2d5",
			},
		},
	}
}

func rosePine() Theme {
	return Theme{
		ID:          "rosePine",
		Name:        "Rosé Pine",
		Description: "All natural pine, faux fur and a bit of soho vibes",
		Colors: Colors{
			Background: "#191724",
			Surface:    "#1f1d2e",
			Border:     "#403d52",
			Text:       "#e0def4",
			TextMuted:  "#908caa",
			Accent:     "#c4a7e7",
			KeycapColors: []string{
				"#191724", "#1f1d2e", "#26233a", "#403d52", "#6e6a86",
				"#908caa", "#e0def4", "#eb6f92", "#f6c177", "#ebbcba",
				"#31748f", "#9ccfd8", "#c4a7e7",
			},
			CableColors: []string{
				"#191724", "#403d52", "#c4a7e7", "#9ccfd8",
				"#eb6f92", "#f6c177", "#ebbcba", "#31748f",
			},
		},
	}
}

func gruvbox() Theme {
	return Theme{
		ID:          "gruvbox",
		Name:        "Gruvbox Dark",
		Description: "Retro groove color scheme",
		Colors: Colors{
			Background: "#282828",
			Surface:    "#3c3836",
			Border:     "#504945",
			Text:       "#ebdbb2",
			TextMuted:  "#a89984",
			Accent:     "#d3869b",
			KeycapColors: []string{
				"#282828", "#3c3836", "#504945", "#665c54", "#7c6f64",
				"#928374", "#a89984", "#bdae93", "#d5c4a1", "#ebdbb2",
				"#fbf1c7", "#cc241d", "#d65d0e", "#d79921", "#98971a",
				"#689d6a", "#458588", "#b16286", "#d3869b",
			},
			CableColors: []string{
				"#282828", "#504945", "#d3869b", "#458588",
				"#cc241d", "#d79921", "#98971a", "#b16286",
			},
		},
	}
}

// classic uses the stock swatch lists on a neutral dark surface.
func classic() Theme {
	return Theme{
		ID:          "classic",
		Name:        "Classic",
		Description: "Stock keycap and cable swatches",
		Colors: Colors{
			Background:   "#111827",
			Surface:      "#1f2937",
			Border:       "#374151",
			Text:         "#f9fafb",
			TextMuted:    "#9ca3af",
			Accent:       "#60a5fa",
			KeycapColors: append([]string(nil), color.KeycapSwatches...),
			CableColors:  append([]string(nil), color.CableSwatches...),
		},
	}
}
