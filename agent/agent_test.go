package agent

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/serpent/neural"
	"github.com/pthm-cable/serpent/snake"
)

func TestActionSetDecode(t *testing.T) {
	tests := []struct {
		name   string
		output []float64
		want   snake.Direction
	}{
		{"down wins", []float64{0.1, 0.9, 0.3, 0.2}, snake.Down},
		{"right wins", []float64{0.1, 0.2, 0.3, 0.4}, snake.Right},
		{"tie picks first", []float64{0.5, 0.5, 0.5, 0.5}, snake.Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultActions.Decode(tt.output)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode(%v) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}

	if _, err := DefaultActions.Decode([]float64{1, 2, 3}); !errors.Is(err, ErrActionMismatch) {
		t.Errorf("short output: err = %v, want ErrActionMismatch", err)
	}

	custom := ActionSet{snake.Left, snake.Right}
	if got, _ := custom.Decode([]float64{0.2, 0.1}); got != snake.Left {
		t.Errorf("custom set decoded %v, want left", got)
	}
}

func TestNewDarwinValidatesShape(t *testing.T) {
	tests := []struct {
		name   string
		layers []int
	}{
		{"wrong inputs", []int{5, 4}},
		{"wrong outputs", []int{snake.NumSensors, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := neural.NewNetwork(nil, nil, tt.layers, false)
			if err != nil {
				t.Fatalf("NewNetwork: %v", err)
			}
			if _, err := NewDarwin(net, DefaultActions); !errors.Is(err, ErrActionMismatch) {
				t.Errorf("err = %v, want ErrActionMismatch", err)
			}
		})
	}
}

func TestDarwinAct(t *testing.T) {
	// Every sensor feeds only the "right" output.
	w := mat.NewDense(snake.NumSensors, 4, nil)
	for i := 0; i < snake.NumSensors; i++ {
		w.Set(i, 3, 1)
	}
	net, err := neural.NewNetworkFromWeights([]int{snake.NumSensors, 4}, []*mat.Dense{w})
	if err != nil {
		t.Fatalf("NewNetworkFromWeights: %v", err)
	}
	policy, err := NewDarwin(net, DefaultActions)
	if err != nil {
		t.Fatalf("NewDarwin: %v", err)
	}

	g, err := snake.NewGameAt(rand.New(rand.NewSource(42)), snake.DefaultOptions(), snake.Point{X: 5, Y: 5}, snake.Up)
	if err != nil {
		t.Fatalf("NewGameAt: %v", err)
	}

	for i := 0; i < 3; i++ {
		dir, err := policy.Act(g)
		if err != nil {
			t.Fatalf("Act: %v", err)
		}
		if dir != snake.Right {
			t.Errorf("step %d: action = %v, want right", i, dir)
		}
		g.Turn(dir)
		g.Step()
	}
	if policy.Changes() != 0 {
		t.Errorf("changes = %d, want 0 for a constant action", policy.Changes())
	}
	if policy.Name() != "darwin" {
		t.Errorf("name = %q", policy.Name())
	}
}

func TestGreedyHeadsForFood(t *testing.T) {
	g, err := snake.NewGameAt(rand.New(rand.NewSource(42)), snake.DefaultOptions(), snake.Point{X: 5, Y: 5}, snake.Right)
	if err != nil {
		t.Fatalf("NewGameAt: %v", err)
	}
	if err := g.SetFood(snake.Point{X: 8, Y: 5}); err != nil {
		t.Fatalf("SetFood: %v", err)
	}

	dir, _ := Greedy{}.Act(g)
	if dir != snake.Right {
		t.Errorf("food ahead: action = %v, want right", dir)
	}

	// Food directly behind: reversing is not allowed, so it sidesteps.
	g.SetFood(snake.Point{X: 2, Y: 5})
	dir, _ = Greedy{}.Act(g)
	if dir != snake.Up {
		t.Errorf("food behind: action = %v, want up", dir)
	}
}

func TestGreedyEats(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g, err := snake.NewGame(rand.New(rand.NewSource(seed)), snake.Options{Width: 20, Height: 20, MaxSteps: 500})
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		for !g.Done() && g.FoodEaten() == 0 {
			dir, _ := Greedy{}.Act(g)
			g.Turn(dir)
			g.Step()
		}
		if g.FoodEaten() == 0 {
			t.Errorf("seed %d: greedy never reached the food", seed)
		}
	}
}
