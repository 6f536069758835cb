package service

// Viewport models the scroll state of a rendered log window independent of
// any UI toolkit. Heights and offsets are abstract units (pixels, rows).
// Prepending older entries must not visually move the viewport: measure the
// content height before the prepend, then adjust the offset by the exact
// delta after.
type Viewport struct {
	// Offset is the scroll position measured from the top of the content.
	Offset float64
	// ContentHeight is the total height of the rendered entries.
	ContentHeight float64
	// ViewHeight is the height of the visible window.
	ViewHeight float64
}

// AtTop reports whether the viewport shows the oldest rendered entry, i.e.
// backward pagination should be considered.
func (vp Viewport) AtTop() bool {
	return vp.Offset <= 0
}

// AtBottom reports whether the viewport is within threshold of the newest
// entry. Live-tail replacement only auto-follows when the viewer is already
// at the bottom.
func (vp Viewport) AtBottom(threshold float64) bool {
	return vp.Offset+vp.ViewHeight >= vp.ContentHeight-threshold
}

// AfterPrepend returns the viewport adjusted for content that grew from
// heightBefore to heightAfter by prepending. The offset shifts by the exact
// height delta so the same entry stays at the same visual position.
func (vp Viewport) AfterPrepend(heightBefore, heightAfter float64) Viewport {
	delta := heightAfter - heightBefore
	vp.Offset += delta
	vp.ContentHeight = heightAfter
	return vp
}

// ScrolledToBottom returns the viewport positioned at the newest entry.
func (vp Viewport) ScrolledToBottom() Viewport {
	vp.Offset = vp.ContentHeight - vp.ViewHeight
	if vp.Offset < 0 {
		vp.Offset = 0
	}
	return vp
}
