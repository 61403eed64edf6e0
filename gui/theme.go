package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	colorBackground = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	colorForeground = color.NRGBA{R: 0xe6, G: 0xe6, B: 0xeb, A: 0xff}
	colorPrimary    = color.NRGBA{R: 0x64, G: 0x6c, B: 0xff, A: 0xff}
	colorDone       = color.NRGBA{R: 0x8a, G: 0x8a, B: 0x94, A: 0xff}
)

// benchTheme is the dark palette every window uses regardless of the
// system preference, so screenshots across frameworks line up.
type benchTheme struct{}

func (t *benchTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorBackground
	case theme.ColorNameForeground:
		return colorForeground
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorPrimary
	case theme.ColorNameDisabled:
		return colorDone
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (t *benchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *benchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *benchTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return 14
	}
	return theme.DefaultTheme().Size(name)
}
