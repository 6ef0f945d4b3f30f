package snake

// Direction is a heading on the grid. Up decreases Y.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every heading in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the one-cell offset for the heading.
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{0, -1}
	case Down:
		return Point{0, 1}
	case Left:
		return Point{-1, 0}
	default:
		return Point{1, 0}
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Manhattan returns the taxicab distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
