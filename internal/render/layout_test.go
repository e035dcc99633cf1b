package render

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestPixelsToMM(t *testing.T) {
	if got := PixelsToMM(72, 72); !near(got, 25.4) {
		t.Fatalf("72px@72dpi=%v, want 25.4", got)
	}
	if got := PixelsToMM(300, 0); !near(got, PixelsToMM(300, DefaultDPI)) {
		t.Fatalf("zero dpi should mean DefaultDPI, got %v", got)
	}
}

func TestFit_SquareImageInPortraitArea(t *testing.T) {
	// 1000px at 100dpi is 254mm square.
	side := PixelsToMM(1000, 100)
	p := Fit(Rect{X: 15, Y: 15, W: 180, H: 260}, side, side)
	if !near(p.W, 180) || !near(p.H, 180) {
		t.Fatalf("size=%vx%v, want 180x180", p.W, p.H)
	}
	if !near(p.X, 15) || !near(p.Y, 15+40) {
		t.Fatalf("origin=(%v,%v), want (15,55)", p.X, p.Y)
	}
	if !near(p.Scale, 180/side) {
		t.Fatalf("scale=%v", p.Scale)
	}
}

func TestFit_AspectPreservedAndContained(t *testing.T) {
	area := Rect{X: 15, Y: 40, W: 180, H: 242}
	for _, sz := range [][2]float64{{10, 400}, {400, 10}, {50, 50}, {1, 1}, {3000, 2000}} {
		p := Fit(area, sz[0], sz[1])
		if !near(p.W/p.H, sz[0]/sz[1]) {
			t.Fatalf("%v: aspect changed to %v", sz, p.W/p.H)
		}
		if p.X < area.X-0.01 || p.Y < area.Y-0.01 || p.X+p.W > area.X+area.W+0.01 || p.Y+p.H > area.Y+area.H+0.01 {
			t.Fatalf("%v: placement %+v escapes %+v", sz, p, area)
		}
		if !near(p.W, area.W) && !near(p.H, area.H) {
			t.Fatalf("%v: neither dimension fills the area: %+v", sz, p)
		}
		if !near(p.X-area.X, area.X+area.W-(p.X+p.W)) || !near(p.Y-area.Y, area.Y+area.H-(p.Y+p.H)) {
			t.Fatalf("%v: not centred: %+v", sz, p)
		}
	}
}

func TestFit_Degenerate(t *testing.T) {
	p := Fit(Rect{X: 15, Y: 20, W: 180, H: 0}, 10, 10)
	if p.W != 0 || p.H != 0 || p.X != 15 || p.Y != 20 {
		t.Fatalf("degenerate area gave %+v", p)
	}
	if p := Fit(Rect{W: 10, H: 10}, 0, 5); p.W != 0 {
		t.Fatalf("zero-width image gave %+v", p)
	}
}
