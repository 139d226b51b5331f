package chart

import "image/color"

// Theme is the render palette. Every color the draw pass touches comes
// from here so light and dark charts share one code path.
type Theme struct {
	Name       string
	Background color.Color
	Foreground color.Color // tick labels and axis titles
	Grid       color.Color
	Border     color.Color
	Axis       color.Color
	Accent     color.Color // data line
	Muted      color.Color // placeholder text
}

var lightTheme = Theme{
	Name:       "light",
	Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Foreground: color.RGBA{R: 0x22, G: 0x26, B: 0x2b, A: 0xff},
	Grid:       color.RGBA{R: 0xe3, G: 0xe6, B: 0xea, A: 0xff},
	Border:     color.RGBA{R: 0xc4, G: 0xc9, B: 0xcf, A: 0xff},
	Axis:       color.RGBA{R: 0x4a, G: 0x50, B: 0x58, A: 0xff},
	Accent:     color.RGBA{R: 0x1c, G: 0x6e, B: 0xc2, A: 0xff},
	Muted:      color.RGBA{R: 0x8a, G: 0x91, B: 0x99, A: 0xff},
}

var darkTheme = Theme{
	Name:       "dark",
	Background: color.RGBA{R: 0x12, G: 0x16, B: 0x1c, A: 0xff},
	Foreground: color.RGBA{R: 0xd6, G: 0xda, B: 0xe0, A: 0xff},
	Grid:       color.RGBA{R: 0x2a, G: 0x30, B: 0x39, A: 0xff},
	Border:     color.RGBA{R: 0x3c, G: 0x43, B: 0x4e, A: 0xff},
	Axis:       color.RGBA{R: 0x9c, G: 0xa3, B: 0xad, A: 0xff},
	Accent:     color.RGBA{R: 0x4d, G: 0xa3, B: 0xff, A: 0xff},
	Muted:      color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff},
}

// ThemeByName resolves a theme name, defaulting to light
func ThemeByName(name string) Theme {
	if name == "dark" {
		return darkTheme
	}
	return lightTheme
}
