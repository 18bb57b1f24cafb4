package battle

// Position is an integer cell on one side's grid. Row 0 is the front
// row, closest to the opposing side.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FromGridID converts a linear slot id to a position for a grid of the
// given width.
func FromGridID(id, width int) Position {
	if width <= 0 {
		return Position{}
	}
	return Position{X: id % width, Y: id / width}
}

// GridID converts the position back to a linear slot id.
func (p Position) GridID(width int) int { return p.Y*width + p.X }

// Distance is the cross-grid metric between an attacker and a target
// on facing grids. Front rows are closest; half a step per column of
// horizontal offset.
func Distance(attacker, target Position) int {
	d := attacker.Y + target.Y + 1
	col := attacker.X - target.X
	if col < 0 {
		col = -col
	}
	return d + col/2
}
