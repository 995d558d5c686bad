package placement

// Point is an abstracted pointer position in container pixels. Mouse and
// touch handlers both reduce their events to a Point before calling the
// controller, so drag behaviour is identical for either input source.
type Point struct {
	X float64
	Y float64
}

// Rect is the pixel size of the drag container the garment preview renders in.
type Rect struct {
	Width  float64
	Height float64
}

// DragSession captures the pixel offset between the pointer and the rendered
// center of the placement at drag start. Keeping the offset fixed for the
// whole drag prevents the print from snapping under the pointer.
type DragSession struct {
	offsetX float64
	offsetY float64
}

// Controller maintains the single active placement of a customization
// session. One placement per session, last write wins; no locking is needed
// because all input events arrive on one UI event loop.
type Controller struct {
	sizes []PrintSize
	state State
	dirty bool
}

// NewController creates a Controller with the given print-size catalog and a
// default centered placement.
func NewController(sizes []PrintSize) *Controller {
	return &Controller{sizes: sizes, state: Default()}
}

// State returns the current placement.
func (c *Controller) State() State {
	return c.state
}

// BeginDrag starts a drag session, recording the offset between the pointer
// and the currently rendered placement center. Returns ErrInvalidContainer
// when the container has no area yet; the caller drops the event and the
// next render pass self-corrects.
func (c *Controller) BeginDrag(pointer Point, container Rect) (*DragSession, error) {
	if container.Width <= 0 || container.Height <= 0 {
		return nil, ErrInvalidContainer
	}

	centerX := container.Width * c.state.X / 100
	centerY := container.Height * c.state.Y / 100

	return &DragSession{
		offsetX: pointer.X - centerX,
		offsetY: pointer.Y - centerY,
	}, nil
}

// UpdateDrag moves the placement to follow the pointer, converting the new
// pixel center to container percentages and saturating each axis at [0,100].
// Degenerate geometry is absorbed: the previous state is returned unchanged.
func (c *Controller) UpdateDrag(pointer Point, session *DragSession, container Rect) State {
	if session == nil || container.Width <= 0 || container.Height <= 0 {
		return c.state
	}

	centerX := pointer.X - session.offsetX
	centerY := pointer.Y - session.offsetY

	c.state.X = clamp(centerX/container.Width*100, 0, 100)
	c.state.Y = clamp(centerY/container.Height*100, 0, 100)

	return c.state
}

// EndDrag finalizes the placement and marks it dirty for persistence.
func (c *Controller) EndDrag() State {
	c.dirty = true
	return c.state
}

// SetRotation sets the print rotation, saturating at [-180,180] degrees.
func (c *Controller) SetRotation(deg float64) {
	c.state.Rotation = clamp(deg, -180, 180)
	c.dirty = true
}

// SetScale applies the preview scale of the print size at the given catalog
// index. An out-of-range index leaves the scale untouched.
func (c *Controller) SetScale(index int) error {
	if index < 0 || index >= len(c.sizes) {
		return ErrUnknownPrintSize
	}
	c.state.Scale = c.sizes[index].PreviewScale
	c.dirty = true
	return nil
}

// SetSide switches the print between the front and back of the garment.
func (c *Controller) SetSide(side Side) {
	c.state.Side = side
	c.dirty = true
}

// Reset recenters the placement and clears scale and rotation. The selected
// side is preserved.
func (c *Controller) Reset() State {
	side := c.state.Side
	c.state = Default()
	c.state.Side = side
	c.dirty = true
	return c.state
}

// Dirty reports whether the placement changed since the last ClearDirty.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// ClearDirty is called after the placement has been persisted.
func (c *Controller) ClearDirty() {
	c.dirty = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
