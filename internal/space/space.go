package space

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrInvalidShape = errors.New("invalid space shape")
	ErrBoundsSize   = errors.New("bounds size does not match shape")
	ErrInvalidCount = errors.New("discrete action count must be positive")
)

// Box is a continuous observation space. Low and High are flattened in
// row-major order and have Product(Shape()) elements each.
type Box interface {
	Shape() []int
	Low() []float64
	High() []float64
}

// Discrete is a finite set of mutually exclusive actions [0, N).
type Discrete interface {
	N() int
	Sample() int
}

// Product multiplies the shape dimensions. An empty shape yields 1.
func Product(shape []int) int {
	total := 1
	for _, dim := range shape {
		total *= dim
	}
	return total
}

type BoxSpace struct {
	shape []int
	low   []float64
	high  []float64
}

func NewBox(shape []int, low, high []float64) (*BoxSpace, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: shape is empty", ErrInvalidShape)
	}
	for i, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("%w: dim %d = %d", ErrInvalidShape, i, dim)
		}
	}
	size := Product(shape)
	if len(low) != size || len(high) != size {
		return nil, fmt.Errorf("%w: want=%d low=%d high=%d", ErrBoundsSize, size, len(low), len(high))
	}
	return &BoxSpace{
		shape: append([]int(nil), shape...),
		low:   append([]float64(nil), low...),
		high:  append([]float64(nil), high...),
	}, nil
}

// NewUniformBox builds a box whose every element shares the same bounds.
func NewUniformBox(shape []int, low, high float64) (*BoxSpace, error) {
	size := Product(shape)
	if size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
	}
	lows := make([]float64, size)
	highs := make([]float64, size)
	for i := range lows {
		lows[i] = low
		highs[i] = high
	}
	return NewBox(shape, lows, highs)
}

func (b *BoxSpace) Shape() []int {
	return append([]int(nil), b.shape...)
}

func (b *BoxSpace) Low() []float64 {
	return append([]float64(nil), b.low...)
}

func (b *BoxSpace) High() []float64 {
	return append([]float64(nil), b.high...)
}

// Size is the flattened element count.
func (b *BoxSpace) Size() int {
	return Product(b.shape)
}

// Contains reports whether the flattened observation lies within bounds.
func (b *BoxSpace) Contains(observation []float64) bool {
	if len(observation) != len(b.low) {
		return false
	}
	for i, value := range observation {
		if value < b.low[i] || value > b.high[i] {
			return false
		}
	}
	return true
}

type DiscreteSpace struct {
	n int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiscrete builds an n-action space. A nil rng is replaced by a
// time-seeded source.
func NewDiscrete(n int, rng *rand.Rand) (*DiscreteSpace, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DiscreteSpace{n: n, rng: rng}, nil
}

func (d *DiscreteSpace) N() int {
	return d.n
}

func (d *DiscreteSpace) Sample() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(d.n)
}

func (d *DiscreteSpace) Contains(action int) bool {
	return action >= 0 && action < d.n
}
