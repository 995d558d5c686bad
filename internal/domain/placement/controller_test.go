package placement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSizes() []PrintSize {
	return []PrintSize{
		{Label: "S", WidthCm: 10, HeightCm: 10, Surcharge: decimal.NewFromInt(250), PreviewScale: 0.7},
		{Label: "M", WidthCm: 20, HeightCm: 20, Surcharge: decimal.NewFromInt(390), PreviewScale: 1},
		{Label: "L", WidthCm: 30, HeightCm: 30, Surcharge: decimal.NewFromInt(540), PreviewScale: 1.4},
	}
}

func TestBeginDrag_InvalidContainer(t *testing.T) {
	c := NewController(testSizes())

	tests := []struct {
		name      string
		container Rect
	}{
		{"zero width", Rect{Width: 0, Height: 400}},
		{"zero height", Rect{Width: 300, Height: 0}},
		{"negative width", Rect{Width: -1, Height: 400}},
		{"zero both", Rect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.BeginDrag(Point{X: 10, Y: 10}, tt.container)
			require.ErrorIs(t, err, ErrInvalidContainer)
		})
	}
}

func TestDrag_FollowsPointer(t *testing.T) {
	c := NewController(testSizes())
	container := Rect{Width: 400, Height: 600}

	// Placement starts centered: rendered center at (200, 300).
	// Grab 10px right and 20px below the center.
	session, err := c.BeginDrag(Point{X: 210, Y: 320}, container)
	require.NoError(t, err)

	// Moving the pointer to (310, 470) puts the center at (300, 450).
	state := c.UpdateDrag(Point{X: 310, Y: 470}, session, container)
	assert.InDelta(t, 75, state.X, 1e-9)
	assert.InDelta(t, 75, state.Y, 1e-9)
}

func TestDrag_ClampsToContainer(t *testing.T) {
	c := NewController(testSizes())
	container := Rect{Width: 400, Height: 600}

	session, err := c.BeginDrag(Point{X: 200, Y: 300}, container)
	require.NoError(t, err)

	// Pointer positions far outside the container never push the
	// placement outside [0,100] on either axis.
	pointers := []Point{
		{X: -10_000, Y: 300},
		{X: 10_000, Y: 300},
		{X: 200, Y: -10_000},
		{X: 200, Y: 10_000},
		{X: -1e9, Y: 1e9},
		{X: 399.5, Y: 0.5},
		{X: 1e18, Y: -1e18},
	}
	for _, p := range pointers {
		state := c.UpdateDrag(p, session, container)
		assert.GreaterOrEqual(t, state.X, 0.0, "pointer %+v", p)
		assert.LessOrEqual(t, state.X, 100.0, "pointer %+v", p)
		assert.GreaterOrEqual(t, state.Y, 0.0, "pointer %+v", p)
		assert.LessOrEqual(t, state.Y, 100.0, "pointer %+v", p)
	}
}

func TestUpdateDrag_DegenerateGeometryAbsorbed(t *testing.T) {
	c := NewController(testSizes())
	container := Rect{Width: 400, Height: 600}

	session, err := c.BeginDrag(Point{X: 200, Y: 300}, container)
	require.NoError(t, err)
	c.UpdateDrag(Point{X: 100, Y: 150}, session, container)
	before := c.State()

	// Mid-drag the container collapses during a relayout. The update is
	// dropped and the placement stays where it was.
	state := c.UpdateDrag(Point{X: 9999, Y: 9999}, session, Rect{Width: 0, Height: 0})
	assert.Equal(t, before, state)

	// A nil session is absorbed the same way.
	state = c.UpdateDrag(Point{X: 9999, Y: 9999}, nil, container)
	assert.Equal(t, before, state)
}

func TestSetRotation_Clamps(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want float64
	}{
		{"in range", 45, 45},
		{"negative in range", -120, -120},
		{"above max", 270, 180},
		{"below min", -500, -180},
		{"boundary", 180, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testSizes())
			c.SetRotation(tt.deg)
			assert.Equal(t, tt.want, c.State().Rotation)
		})
	}
}

func TestSetScale(t *testing.T) {
	c := NewController(testSizes())

	require.NoError(t, c.SetScale(2))
	assert.Equal(t, 1.4, c.State().Scale)

	require.ErrorIs(t, c.SetScale(3), ErrUnknownPrintSize)
	require.ErrorIs(t, c.SetScale(-1), ErrUnknownPrintSize)
	// Failed lookups leave the scale untouched.
	assert.Equal(t, 1.4, c.State().Scale)
}

func TestReset_PreservesSide(t *testing.T) {
	c := NewController(testSizes())
	c.SetSide(SideBack)
	c.SetRotation(90)
	require.NoError(t, c.SetScale(0))

	state := c.Reset()
	assert.Equal(t, State{X: 50, Y: 50, Scale: 1, Rotation: 0, Side: SideBack}, state)
}

func TestDirtyTracking(t *testing.T) {
	c := NewController(testSizes())
	assert.False(t, c.Dirty())

	c.EndDrag()
	assert.True(t, c.Dirty())

	c.ClearDirty()
	assert.False(t, c.Dirty())
}

func TestStateValidate(t *testing.T) {
	valid := State{X: 50, Y: 50, Scale: 1, Rotation: 0, Side: SideFront}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*State)
		field  string
	}{
		{"x below range", func(s *State) { s.X = -0.1 }, "x"},
		{"x above range", func(s *State) { s.X = 100.1 }, "x"},
		{"y above range", func(s *State) { s.Y = 101 }, "y"},
		{"zero scale", func(s *State) { s.Scale = 0 }, "scale"},
		{"negative scale", func(s *State) { s.Scale = -2 }, "scale"},
		{"rotation out of range", func(s *State) { s.Rotation = 181 }, "rotation"},
		{"unknown side", func(s *State) { s.Side = "sleeve" }, "side"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			var vErr *InvalidStateError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
