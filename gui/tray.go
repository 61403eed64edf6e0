package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const trayIconSize = 22

var trayIcon = sync.OnceValue(func() fyne.Resource {
	data, err := renderTrayIcon()
	if err != nil {
		return theme.ComputerIcon()
	}
	return fyne.NewStaticResource("tray.png", data)
})

// renderTrayIcon draws a gauge: a ring in the primary color with a needle.
func renderTrayIcon() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, trayIconSize, trayIconSize))
	center := float64(trayIconSize) / 2
	for y := 0; y < trayIconSize; y++ {
		for x := 0; x < trayIconSize; x++ {
			dx := float64(x) - center + 0.5
			dy := float64(y) - center + 0.5
			dist := math.Hypot(dx, dy)
			switch {
			case dist >= 8 && dist < 10:
				img.Set(x, y, colorPrimary)
			case dist < 8 && onNeedle(dx, dy):
				img.Set(x, y, colorForeground)
			case dist < 2:
				img.Set(x, y, color.NRGBA{R: 0xff, G: 0x5a, B: 0x5a, A: 0xff})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// onNeedle reports whether (dx, dy) lies on the segment pointing up-right.
func onNeedle(dx, dy float64) bool {
	if dx < 0 || dy > 0 {
		return false
	}
	return math.Abs(dx+dy) < 1.2
}
