// Package viewer implements the pan/zoom/navigate math for the fullscreen
// image viewer. It is pure state arithmetic; rendering and key handling live
// in the TUI layer.
package viewer

// Zoom limits. At MinScale the image exactly fits its container.
const (
	MinScale = 1.0
	MaxScale = 8.0
)

// Viewer holds the transform state for a set of images viewed one at a time.
// The transform applies to the image fitted into a container of the given
// size; offsets are in container coordinates relative to the centered
// position.
type Viewer struct {
	ContainerWidth  float64
	ContainerHeight float64

	count   int
	index   int
	scale   float64
	offsetX float64
	offsetY float64
}

// New creates a viewer over count images starting at the given index. An
// out-of-range start index falls back to 0.
func New(count, index int, containerWidth, containerHeight float64) *Viewer {
	if index < 0 || index >= count {
		index = 0
	}
	return &Viewer{
		ContainerWidth:  containerWidth,
		ContainerHeight: containerHeight,
		count:           count,
		index:           index,
		scale:           MinScale,
	}
}

// Index returns the index of the image currently shown.
func (v *Viewer) Index() int { return v.index }

// Count returns the number of images.
func (v *Viewer) Count() int { return v.count }

// Scale returns the current zoom scale.
func (v *Viewer) Scale() float64 { return v.scale }

// Offset returns the current pan offset.
func (v *Viewer) Offset() (x, y float64) { return v.offsetX, v.offsetY }

// Zoom adjusts the scale by delta, keeping the point under the cursor
// stationary. Scale is clamped to [MinScale, MaxScale]; at minimum scale the
// offset resets so the image is centered again.
func (v *Viewer) Zoom(cursorX, cursorY, delta float64) {
	newScale := clamp(v.scale+delta, MinScale, MaxScale)
	if newScale == v.scale {
		return
	}

	if newScale <= MinScale {
		v.scale = MinScale
		v.offsetX = 0
		v.offsetY = 0
		return
	}

	// Keep the image point under the cursor fixed: find where the cursor
	// lands in image space at the old scale, then place it back under the
	// cursor at the new scale.
	relX := cursorX - v.ContainerWidth/2
	relY := cursorY - v.ContainerHeight/2

	v.offsetX = relX - ((relX-v.offsetX)/v.scale)*newScale
	v.offsetY = relY - ((relY-v.offsetY)/v.scale)*newScale
	v.scale = newScale

	v.clampOffset()
}

// Pan shifts the view by (dx, dy). Panning does nothing at minimum scale,
// where the whole image is already visible.
func (v *Viewer) Pan(dx, dy float64) {
	if v.scale <= MinScale {
		return
	}

	v.offsetX += dx
	v.offsetY += dy
	v.clampOffset()
}

// Navigate switches to the image at index i and resets the transform. An
// index outside [0, count) is a no-op.
func (v *Viewer) Navigate(i int) bool {
	if i < 0 || i >= v.count {
		return false
	}

	v.index = i
	v.scale = MinScale
	v.offsetX = 0
	v.offsetY = 0
	return true
}

// Next moves to the next image, if any.
func (v *Viewer) Next() bool { return v.Navigate(v.index + 1) }

// Prev moves to the previous image, if any.
func (v *Viewer) Prev() bool { return v.Navigate(v.index - 1) }

// clampOffset keeps the scaled image covering the container: the offset may
// not exceed half the overflow in either axis.
func (v *Viewer) clampOffset() {
	maxX := max(0, (v.ContainerWidth*v.scale-v.ContainerWidth)/2)
	maxY := max(0, (v.ContainerHeight*v.scale-v.ContainerHeight)/2)

	v.offsetX = clamp(v.offsetX, -maxX, maxX)
	v.offsetY = clamp(v.offsetY, -maxY, maxY)
}

func clamp(val, low, high float64) float64 {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}
