// Package agent provides policies that choose a snake heading each step.
package agent

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/serpent/neural"
	"github.com/pthm-cable/serpent/snake"
)

// ErrActionMismatch reports a network output that does not line up with the
// action set.
var ErrActionMismatch = errors.New("agent: output size does not match action set")

// Policy picks the next heading for a game.
type Policy interface {
	Act(g *snake.Game) (snake.Direction, error)
	Name() string
}

// ActionSet maps output indices to headings. Output i selects set[i].
type ActionSet []snake.Direction

// DefaultActions is the action set used by the snake policy networks.
var DefaultActions = ActionSet{snake.Up, snake.Down, snake.Left, snake.Right}

// Decode returns the action with the largest output. Ties resolve to the
// lowest index.
func (s ActionSet) Decode(output []float64) (snake.Direction, error) {
	if len(output) != len(s) || len(s) == 0 {
		return 0, fmt.Errorf("%w: %d outputs, %d actions", ErrActionMismatch, len(output), len(s))
	}
	return s[floats.MaxIdx(output)], nil
}

// Darwin drives the snake with an evolved network.
type Darwin struct {
	net     *neural.Network
	actions ActionSet

	last    snake.Direction
	acted   bool
	changes int
}

// NewDarwin wraps net. The network must take snake.NumSensors inputs and
// produce one output per action.
func NewDarwin(net *neural.Network, actions ActionSet) (*Darwin, error) {
	layers := net.Layers()
	if layers[0] != snake.NumSensors {
		return nil, fmt.Errorf("%w: network takes %d inputs, sensors provide %d",
			ErrActionMismatch, layers[0], snake.NumSensors)
	}
	if out := layers[len(layers)-1]; out != len(actions) {
		return nil, fmt.Errorf("%w: %d outputs, %d actions", ErrActionMismatch, out, len(actions))
	}
	return &Darwin{net: net, actions: actions}, nil
}

// Act feeds the sensor vector through the network and decodes the output.
func (d *Darwin) Act(g *snake.Game) (snake.Direction, error) {
	out, err := d.net.Activate(snake.Sensors(g))
	if err != nil {
		return 0, err
	}
	dir, err := d.actions.Decode(out)
	if err != nil {
		return 0, err
	}
	if d.acted && dir != d.last {
		d.changes++
	}
	d.last, d.acted = dir, true
	return dir, nil
}

// Changes returns how often the chosen action differed from the previous one.
func (d *Darwin) Changes() int { return d.changes }

// Name implements Policy.
func (d *Darwin) Name() string { return "darwin" }

// Greedy heads for the food by the shortest Manhattan route while avoiding
// immediate death. It is the baseline the evolved policies are compared to.
type Greedy struct{}

// Rank values, lower is better.
const (
	rankCloser = iota + 1
	rankSame
	rankFarther
	rankBlocked
)

// Act implements Policy.
func (Greedy) Act(g *snake.Game) (snake.Direction, error) {
	head, food := g.Head(), g.Food()
	best, bestRank := g.Direction(), rankBlocked+1

	for _, d := range snake.Directions {
		var rank int
		switch {
		case d == g.Direction().Opposite() || g.WillDie(d):
			rank = rankBlocked
		default:
			delta := food.Manhattan(head) - food.Manhattan(head.Add(d.Delta()))
			switch {
			case delta > 0:
				rank = rankCloser
			case delta == 0:
				rank = rankSame
			default:
				rank = rankFarther
			}
		}
		if rank < bestRank {
			best, bestRank = d, rank
		}
	}
	return best, nil
}

// Name implements Policy.
func (Greedy) Name() string { return "greedy" }
