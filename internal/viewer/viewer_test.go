package viewer

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestZoom(t *testing.T) {
	t.Run("scale clamps to maximum", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 100)

		if v.Scale() != MaxScale {
			t.Errorf("Scale() = %v, want %v", v.Scale(), MaxScale)
		}
	})

	t.Run("scale clamps to minimum and resets offset", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 3) // zoom in
		v.Pan(50, 30)
		v.Zoom(400, 300, -100) // zoom all the way out

		if v.Scale() != MinScale {
			t.Errorf("Scale() = %v, want %v", v.Scale(), MinScale)
		}
		x, y := v.Offset()
		if x != 0 || y != 0 {
			t.Errorf("Offset() = (%v, %v), want (0, 0)", x, y)
		}
	})

	t.Run("zoom at center keeps image centered", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 1)

		x, y := v.Offset()
		if !almostEqual(x, 0) || !almostEqual(y, 0) {
			t.Errorf("Offset() = (%v, %v), want (0, 0)", x, y)
		}
		if v.Scale() != 2 {
			t.Errorf("Scale() = %v, want 2", v.Scale())
		}
	})

	t.Run("point under cursor stays fixed", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		cursorX, cursorY := 600.0, 200.0

		// The image point under the cursor before zooming.
		relX := cursorX - v.ContainerWidth/2
		relY := cursorY - v.ContainerHeight/2
		imgX := (relX - v.offsetX) / v.Scale()
		imgY := (relY - v.offsetY) / v.Scale()

		v.Zoom(cursorX, cursorY, 0.5)

		// The same image point, mapped through the new transform, should
		// land back under the cursor (before clamping interferes).
		gotX := imgX*v.Scale() + v.offsetX
		gotY := imgY*v.Scale() + v.offsetY

		// Clamping may move the offset at low scales near the edges; this
		// cursor position and delta stay inside the clamp bounds.
		if !almostEqual(gotX, relX) || !almostEqual(gotY, relY) {
			t.Errorf("cursor point moved: got (%v, %v), want (%v, %v)", gotX, gotY, relX, relY)
		}
	})

	t.Run("offset is clamped to half the overflow", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(0, 0, 1) // scale 2, cursor at top-left corner pulls offset positive

		maxX := (800*2.0 - 800) / 2
		maxY := (600*2.0 - 600) / 2
		x, y := v.Offset()
		if x > maxX+epsilon || x < -maxX-epsilon {
			t.Errorf("OffsetX = %v, outside [%v, %v]", x, -maxX, maxX)
		}
		if y > maxY+epsilon || y < -maxY-epsilon {
			t.Errorf("OffsetY = %v, outside [%v, %v]", y, -maxY, maxY)
		}
	})

	t.Run("zoom at clamped boundary is a no-op", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 100) // already at max
		before := v.Scale()
		x1, y1 := v.Offset()

		v.Zoom(400, 300, 1)

		if v.Scale() != before {
			t.Errorf("Scale() changed from %v to %v", before, v.Scale())
		}
		x2, y2 := v.Offset()
		if x1 != x2 || y1 != y2 {
			t.Errorf("Offset changed from (%v, %v) to (%v, %v)", x1, y1, x2, y2)
		}
	})
}

func TestPan(t *testing.T) {
	t.Run("pan at minimum scale is a no-op", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Pan(100, 100)

		x, y := v.Offset()
		if x != 0 || y != 0 {
			t.Errorf("Offset() = (%v, %v), want (0, 0)", x, y)
		}
	})

	t.Run("pan moves the view when zoomed", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 1) // scale 2, centered
		v.Pan(50, -30)

		x, y := v.Offset()
		if !almostEqual(x, 50) || !almostEqual(y, -30) {
			t.Errorf("Offset() = (%v, %v), want (50, -30)", x, y)
		}
	})

	t.Run("pan clamps at the edges", func(t *testing.T) {
		v := New(1, 0, 800, 600)
		v.Zoom(400, 300, 1) // scale 2
		v.Pan(10000, 10000)

		maxX := (800*2.0 - 800) / 2
		maxY := (600*2.0 - 600) / 2
		x, y := v.Offset()
		if !almostEqual(x, maxX) || !almostEqual(y, maxY) {
			t.Errorf("Offset() = (%v, %v), want clamped (%v, %v)", x, y, maxX, maxY)
		}
	})
}

func TestNavigate(t *testing.T) {
	t.Run("valid navigation resets the transform", func(t *testing.T) {
		v := New(3, 0, 800, 600)
		v.Zoom(400, 300, 2)
		v.Pan(40, 40)

		if !v.Navigate(2) {
			t.Fatal("Navigate(2) = false, want true")
		}
		if v.Index() != 2 {
			t.Errorf("Index() = %d, want 2", v.Index())
		}
		if v.Scale() != MinScale {
			t.Errorf("Scale() = %v, want reset to %v", v.Scale(), MinScale)
		}
		x, y := v.Offset()
		if x != 0 || y != 0 {
			t.Errorf("Offset() = (%v, %v), want (0, 0)", x, y)
		}
	})

	t.Run("out-of-range navigation is a no-op", func(t *testing.T) {
		v := New(3, 1, 800, 600)
		v.Zoom(400, 300, 1)

		for _, i := range []int{-1, 3, 99} {
			if v.Navigate(i) {
				t.Errorf("Navigate(%d) = true, want false", i)
			}
		}
		if v.Index() != 1 {
			t.Errorf("Index() = %d, want unchanged 1", v.Index())
		}
		if v.Scale() == MinScale {
			t.Error("transform was reset by a rejected navigation")
		}
	})

	t.Run("next and prev step by one", func(t *testing.T) {
		v := New(3, 0, 800, 600)

		if !v.Next() || v.Index() != 1 {
			t.Errorf("Next() from 0: index = %d, want 1", v.Index())
		}
		if !v.Prev() || v.Index() != 0 {
			t.Errorf("Prev() from 1: index = %d, want 0", v.Index())
		}
		if v.Prev() {
			t.Error("Prev() from 0 = true, want false")
		}

		v.Navigate(2)
		if v.Next() {
			t.Error("Next() from last = true, want false")
		}
	})

	t.Run("constructor rejects out-of-range start index", func(t *testing.T) {
		v := New(3, 7, 800, 600)
		if v.Index() != 0 {
			t.Errorf("Index() = %d, want fallback 0", v.Index())
		}
	})
}
