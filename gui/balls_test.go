package gui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestBallsWidgetRenders(t *testing.T) {
	test.NewTempApp(t)
	b := NewBallsWidget()
	w := test.NewWindow(b)
	defer w.Close()
	w.Resize(fyne.NewSize(400, 300))

	r := test.WidgetRenderer(b).(*ballsRenderer)
	if got := len(r.Objects()); got != len(b.world.Balls)+1 {
		t.Fatalf("objects = %d", got)
	}

	before := b.Frame()
	b.step(1.0 / 60)
	b.Refresh()
	if b.Frame() != before+1 {
		t.Errorf("Frame = %d, want %d", b.Frame(), before+1)
	}
	for i, c := range r.circles {
		ball := b.world.Balls[i]
		if c.Position().X != float32(ball.X-ball.R) {
			t.Fatalf("circle %d not placed at ball", i)
		}
	}
}

func TestHueColor(t *testing.T) {
	tests := []struct {
		h    float64
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 255, G: 70, B: 70, A: 255}},
		{0.25, color.NRGBA{R: 162, G: 255, B: 70, A: 255}},
		{0.5, color.NRGBA{R: 70, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		if got := hueColor(tt.h); got != tt.want {
			t.Errorf("hueColor(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}
