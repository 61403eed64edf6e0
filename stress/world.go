// Package stress is the CPU load scene used by the --stress mode: balls
// bouncing inside a box plus a fixed amount of arithmetic per ball and
// frame.
package stress

import (
	"math"
	"math/rand/v2"
)

const (
	DefaultBalls = 50
	MinRadius    = 6
	MaxRadius    = 18
	maxSpeed     = 240 // px/s

	// work iterations per ball per Step
	workPerBall = 2000
)

type Ball struct {
	X, Y   float64
	VX, VY float64
	R      float64
	Hue    float64
}

type World struct {
	W, H  float64
	Balls []Ball
	Frame uint64
}

// NewWorld scatters n balls over a w×h box. The same seed yields the same
// world.
func NewWorld(w, h float64, n int, seed uint64) *World {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	world := &World{W: w, H: h, Balls: make([]Ball, n)}
	for i := range world.Balls {
		r := MinRadius + rng.Float64()*(MaxRadius-MinRadius)
		angle := rng.Float64() * 2 * math.Pi
		speed := maxSpeed * (0.3 + 0.7*rng.Float64())
		world.Balls[i] = Ball{
			X:   r + rng.Float64()*math.Max(w-2*r, 0),
			Y:   r + rng.Float64()*math.Max(h-2*r, 0),
			VX:  math.Cos(angle) * speed,
			VY:  math.Sin(angle) * speed,
			R:   r,
			Hue: float64(i) / float64(max(n, 1)),
		}
	}
	return world
}

// Resize changes the box and pulls balls back inside it.
func (w *World) Resize(width, height float64) {
	w.W, w.H = width, height
	for i := range w.Balls {
		w.Balls[i].X, w.Balls[i].VX = confine(w.Balls[i].X, w.Balls[i].VX, w.Balls[i].R, width)
		w.Balls[i].Y, w.Balls[i].VY = confine(w.Balls[i].Y, w.Balls[i].VY, w.Balls[i].R, height)
	}
}

// Step advances the scene by dt seconds and returns a checksum of the
// per-ball work.
func (w *World) Step(dt float64) float64 {
	var sum float64
	for i := range w.Balls {
		b := &w.Balls[i]
		b.X += b.VX * dt
		b.Y += b.VY * dt
		b.X, b.VX = confine(b.X, b.VX, b.R, w.W)
		b.Y, b.VY = confine(b.Y, b.VY, b.R, w.H)
		sum += work(b.X, b.Y, workPerBall)
	}
	w.Frame++
	return sum
}

// confine reflects a coordinate off [r, limit-r]. A box smaller than the
// ball pins it to the center.
func confine(pos, vel, r, limit float64) (float64, float64) {
	if limit <= 2*r {
		return limit / 2, vel
	}
	if pos < r {
		return r + (r - pos), math.Abs(vel)
	}
	if pos > limit-r {
		return (limit - r) - (pos - (limit - r)), -math.Abs(vel)
	}
	return pos, vel
}

func work(x, y float64, n int) float64 {
	acc := 0.0
	for i := 1; i <= n; i++ {
		f := float64(i)
		acc += math.Sin(x/f) * math.Cos(y/f)
		acc = math.Mod(acc+math.Sqrt(f), 1e6)
	}
	return acc
}
