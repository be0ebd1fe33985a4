package dashboard

import (
	echarts "github.com/go-echarts/go-echarts/v2/types"
)

// BackgroundPreset is one of the two fixed viewport gradients the
// presentation layer applies when the theme flips.
type BackgroundPreset struct {
	Name     string `json:"name"`
	Gradient string `json:"gradient"`
}

var (
	lightPreset = BackgroundPreset{
		Name:     "light",
		Gradient: "radial-gradient(#77EED8, #9EABE4)",
	}
	darkPreset = BackgroundPreset{
		Name:     "dark",
		Gradient: "radial-gradient(#2A5470, #4C4177)",
	}
)

// PresetFor selects the background preset for the dark-mode flag.
func PresetFor(darkMode bool) BackgroundPreset {
	if darkMode {
		return darkPreset
	}
	return lightPreset
}

// ChartThemeFor maps the dashboard theme onto an echarts theme so rendered
// charts match the viewport.
func ChartThemeFor(darkMode bool) string {
	if darkMode {
		return string(echarts.ThemeChalk)
	}
	return string(echarts.ThemeWesteros)
}
