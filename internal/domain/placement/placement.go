package placement

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Side identifies which face of the garment a print is placed on.
type Side string

const (
	// SideFront places the print on the chest side of the garment.
	SideFront Side = "front"
	// SideBack places the print on the back side of the garment.
	SideBack Side = "back"
)

// ErrInvalidContainer is returned when the drag container has a non-positive
// width or height. Containers are frequently zero-sized for a frame or two
// during layout, so callers drop the event instead of surfacing the error.
var ErrInvalidContainer = errors.New("drag container has no visible area")

// ErrUnknownPrintSize is returned when a print-size index is outside the
// configured catalog.
var ErrUnknownPrintSize = errors.New("unknown print size")

// State is a normalized print placement on a garment. Positions are percent
// of the container on each axis, so the same state renders correctly at any
// preview resolution.
type State struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
	Side     Side    `json:"side"`
}

// Default returns the placement assigned to a freshly uploaded design:
// centered, unscaled, unrotated, on the front.
func Default() State {
	return State{X: 50, Y: 50, Scale: 1, Rotation: 0, Side: SideFront}
}

// InvalidStateError reports a placement field that is outside its allowed
// range. It is returned from Validate at the order-submission boundary.
type InvalidStateError struct {
	Field  string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "invalid placement " + e.Field + ": " + e.Reason
}

// Validate checks that the state satisfies the placement invariants. A state
// produced by a Controller always passes; Validate guards states arriving
// from outside, such as an order payload.
func (s State) Validate() error {
	if s.X < 0 || s.X > 100 {
		return &InvalidStateError{Field: "x", Reason: "must be within [0,100]"}
	}
	if s.Y < 0 || s.Y > 100 {
		return &InvalidStateError{Field: "y", Reason: "must be within [0,100]"}
	}
	if s.Scale <= 0 {
		return &InvalidStateError{Field: "scale", Reason: "must be positive"}
	}
	if s.Rotation < -180 || s.Rotation > 180 {
		return &InvalidStateError{Field: "rotation", Reason: "must be within [-180,180]"}
	}
	if s.Side != SideFront && s.Side != SideBack {
		return &InvalidStateError{Field: "side", Reason: `must be "front" or "back"`}
	}
	return nil
}

// PrintSize is one entry of the externally supplied print-size catalog.
// Customers select a size by index; Surcharge feeds pricing and PreviewScale
// feeds the designer preview.
type PrintSize struct {
	Label        string
	WidthCm      float64
	HeightCm     float64
	Surcharge    decimal.Decimal
	PreviewScale float64
}

// Catalog provides read access to the print-size catalog.
type Catalog interface {
	ListPrintSizes(ctx context.Context) ([]PrintSize, error)
}
