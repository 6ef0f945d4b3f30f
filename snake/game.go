// Package snake implements a headless grid snake game used to score
// evolved policies.
package snake

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrInvalidBoard reports unusable game options or placements.
var ErrInvalidBoard = errors.New("snake: invalid board")

// Options configures a game.
type Options struct {
	Width  int `yaml:"width"`  // cells
	Height int `yaml:"height"` // cells

	// MaxSteps ends the game after this many steps (0 = unlimited).
	MaxSteps int `yaml:"max_steps"`
	// StarvationSteps ends the game when no food is eaten for this many
	// consecutive steps (0 = unlimited).
	StarvationSteps int `yaml:"starvation_steps"`
}

// DefaultOptions returns a 40x40 board with step limits suited to training.
func DefaultOptions() Options {
	return Options{
		Width:           40,
		Height:          40,
		MaxSteps:        2000,
		StarvationSteps: 200,
	}
}

// Validate checks the board dimensions and limits.
func (o Options) Validate() error {
	if o.Width < 2 || o.Height < 2 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBoard, o.Width, o.Height)
	}
	if o.MaxSteps < 0 || o.StarvationSteps < 0 {
		return fmt.Errorf("%w: negative step limit", ErrInvalidBoard)
	}
	return nil
}

// Game is a single snake episode.
type Game struct {
	opts Options
	rng  *rand.Rand

	body      []Point // tail first, head last
	direction Direction
	food      Point
	hasFood   bool

	alive          bool
	steps          int
	foodEaten      int
	stepsSinceFood int
}

// NewGame starts a game with the head on a random cell and a random heading.
func NewGame(rng *rand.Rand, opts Options) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	head := Point{rng.Intn(opts.Width), rng.Intn(opts.Height)}
	dir := Directions[rng.Intn(len(Directions))]
	return NewGameAt(rng, opts, head, dir)
}

// NewGameAt starts a game with a one-cell snake at head facing dir.
func NewGameAt(rng *rand.Rand, opts Options, head Point, dir Direction) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		opts:      opts,
		rng:       rng,
		direction: dir,
		alive:     true,
	}
	if !g.inBounds(head) {
		return nil, fmt.Errorf("%w: head %v outside %dx%d", ErrInvalidBoard, head, opts.Width, opts.Height)
	}
	g.body = []Point{head}
	g.placeFood()
	return g, nil
}

// Turn changes the heading unless d reverses the current one.
func (g *Game) Turn(d Direction) {
	if d == g.direction.Opposite() {
		return
	}
	g.direction = d
}

// NextHead returns where the head moves on the next step.
func (g *Game) NextHead() Point {
	return g.Head().Add(g.direction.Delta())
}

// WillDie reports whether heading d would kill the snake on the next step.
// A reversing d is evaluated against the unchanged heading.
func (g *Game) WillDie(d Direction) bool {
	if d == g.direction.Opposite() {
		d = g.direction
	}
	next := g.Head().Add(d.Delta())
	return !g.inBounds(next) || slices.Contains(g.body, next)
}

// Step advances the game one cell and reports whether the snake is alive.
func (g *Game) Step() bool {
	if g.Done() {
		return g.alive
	}

	next := g.NextHead()
	g.steps++
	if !g.inBounds(next) || slices.Contains(g.body, next) {
		g.alive = false
		return false
	}

	g.body = append(g.body, next)
	if g.hasFood && next == g.food {
		g.foodEaten++
		g.stepsSinceFood = 0
		g.placeFood()
		return true
	}
	g.body = g.body[1:]
	g.stepsSinceFood++
	return true
}

// Done reports whether the episode is over.
func (g *Game) Done() bool {
	if !g.alive || !g.hasFood {
		return true
	}
	if g.opts.MaxSteps > 0 && g.steps >= g.opts.MaxSteps {
		return true
	}
	return g.opts.StarvationSteps > 0 && g.stepsSinceFood >= g.opts.StarvationSteps
}

// SetFood moves the food to p. p must be free and on the board.
func (g *Game) SetFood(p Point) error {
	if !g.inBounds(p) || slices.Contains(g.body, p) {
		return fmt.Errorf("%w: food at %v", ErrInvalidBoard, p)
	}
	g.food = p
	g.hasFood = true
	return nil
}

// placeFood puts food on a random free cell. A full board leaves no food.
func (g *Game) placeFood() {
	free := g.opts.Width*g.opts.Height - len(g.body)
	if free <= 0 {
		g.hasFood = false
		return
	}
	for {
		p := Point{g.rng.Intn(g.opts.Width), g.rng.Intn(g.opts.Height)}
		if !slices.Contains(g.body, p) {
			g.food = p
			g.hasFood = true
			return
		}
	}
}

func (g *Game) inBounds(p Point) bool {
	return p.X >= 0 && p.X < g.opts.Width && p.Y >= 0 && p.Y < g.opts.Height
}

// Head returns the head cell.
func (g *Game) Head() Point { return g.body[len(g.body)-1] }

// Body returns a copy of the body, tail first.
func (g *Game) Body() []Point { return slices.Clone(g.body) }

// Food returns the food cell.
func (g *Game) Food() Point { return g.food }

// Direction returns the current heading.
func (g *Game) Direction() Direction { return g.direction }

// Options returns the game options.
func (g *Game) Options() Options { return g.opts }

// Alive reports whether the snake is still alive.
func (g *Game) Alive() bool { return g.alive }

// Steps returns the number of steps taken.
func (g *Game) Steps() int { return g.steps }

// FoodEaten returns the number of food cells eaten.
func (g *Game) FoodEaten() int { return g.foodEaten }

// Length returns the number of body cells.
func (g *Game) Length() int { return len(g.body) }
