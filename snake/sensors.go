package snake

// NumSensors is the length of the vector returned by Sensors.
const NumSensors = 8

// Sensor indices.
const (
	SensorLeft = iota
	SensorRight
	SensorUp
	SensorDown
	SensorFoodX
	SensorFoodY
	SensorHeadX
	SensorHeadY
)

// Sensors returns the policy inputs for the current game state, each scaled
// to [0, 1] by the board extents:
//
//	[0-3] distance to the nearest wall or body cell left, right, up, down
//	[4-5] food x, y
//	[6-7] head x, y
func Sensors(g *Game) []float64 {
	w, h := float64(g.opts.Width), float64(g.opts.Height)
	head := g.Head()

	left := head.X
	right := g.opts.Width - head.X
	up := head.Y
	down := g.opts.Height - head.Y

	for _, b := range g.body[:len(g.body)-1] {
		switch {
		case b.Y == head.Y && b.X < head.X:
			left = min(left, head.X-b.X)
		case b.Y == head.Y && b.X > head.X:
			right = min(right, b.X-head.X)
		case b.X == head.X && b.Y < head.Y:
			up = min(up, head.Y-b.Y)
		case b.X == head.X && b.Y > head.Y:
			down = min(down, b.Y-head.Y)
		}
	}

	return []float64{
		SensorLeft:  float64(left) / w,
		SensorRight: float64(right) / w,
		SensorUp:    float64(up) / h,
		SensorDown:  float64(down) / h,
		SensorFoodX: float64(g.food.X) / w,
		SensorFoodY: float64(g.food.Y) / h,
		SensorHeadX: float64(head.X) / w,
		SensorHeadY: float64(head.Y) / h,
	}
}
