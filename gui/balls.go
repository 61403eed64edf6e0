package gui

import (
	"context"
	"image/color"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"deskbench/stress"
)

const frameInterval = time.Second / 60

// BallsWidget draws the stress world and advances it on every frame.
type BallsWidget struct {
	widget.BaseWidget
	mu       sync.Mutex
	world    *stress.World
	checksum float64
}

func NewBallsWidget() *BallsWidget {
	b := &BallsWidget{
		world: stress.NewWorld(mainWidth, mainHeight, stress.DefaultBalls, uint64(time.Now().UnixNano())),
	}
	b.ExtendBaseWidget(b)
	return b
}

// Animate steps the world at 60Hz until ctx is done.
func (b *BallsWidget) Animate(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			b.step(now.Sub(last).Seconds())
			last = now
			fyne.Do(b.Refresh)
		}
	}
}

func (b *BallsWidget) step(dt float64) {
	b.mu.Lock()
	b.checksum = b.world.Step(dt)
	b.mu.Unlock()
}

func (b *BallsWidget) Frame() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.world.Frame
}

func (b *BallsWidget) MinSize() fyne.Size {
	return fyne.NewSize(2*stress.MaxRadius, 2*stress.MaxRadius)
}

func (b *BallsWidget) CreateRenderer() fyne.WidgetRenderer {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &ballsRenderer{balls: b, bg: canvas.NewRectangle(colorBackground)}
	r.circles = make([]*canvas.Circle, len(b.world.Balls))
	for i, ball := range b.world.Balls {
		r.circles[i] = canvas.NewCircle(hueColor(ball.Hue))
	}
	return r
}

type ballsRenderer struct {
	balls   *BallsWidget
	bg      *canvas.Rectangle
	circles []*canvas.Circle
}

func (r *ballsRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.balls.mu.Lock()
	r.balls.world.Resize(float64(size.Width), float64(size.Height))
	r.balls.mu.Unlock()
	r.place()
}

func (r *ballsRenderer) MinSize() fyne.Size {
	return r.balls.MinSize()
}

func (r *ballsRenderer) Refresh() {
	r.place()
	canvas.Refresh(r.balls)
}

func (r *ballsRenderer) place() {
	r.balls.mu.Lock()
	defer r.balls.mu.Unlock()
	for i, ball := range r.balls.world.Balls {
		c := r.circles[i]
		d := float32(2 * ball.R)
		c.Move(fyne.NewPos(float32(ball.X-ball.R), float32(ball.Y-ball.R)))
		c.Resize(fyne.NewSize(d, d))
	}
}

func (r *ballsRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.circles)+1)
	objs = append(objs, r.bg)
	for _, c := range r.circles {
		objs = append(objs, c)
	}
	return objs
}

func (r *ballsRenderer) Destroy() {}

// hueColor maps h in [0,1) to a saturated color.
func hueColor(h float64) color.Color {
	h = math.Mod(h, 1) * 6
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var rf, gf, bf float64
	switch int(h) {
	case 0:
		rf, gf = 1, x
	case 1:
		rf, gf = x, 1
	case 2:
		gf, bf = 1, x
	case 3:
		gf, bf = x, 1
	case 4:
		rf, bf = x, 1
	default:
		rf, bf = 1, x
	}
	const lo, span = 70, 185
	return color.NRGBA{
		R: uint8(lo + rf*span),
		G: uint8(lo + gf*span),
		B: uint8(lo + bf*span),
		A: 0xff,
	}
}
