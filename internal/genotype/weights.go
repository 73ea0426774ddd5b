package genotype

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"genactor/internal/nn"
)

var (
	ErrInvalidSize = errors.New("layer sizes must be positive")
	ErrShapeChain  = errors.New("consecutive layer shapes do not chain")
)

// Shape is the size of one weight matrix: Out rows by In columns.
type Shape struct {
	Out int `json:"out"`
	In  int `json:"in"`
}

func (s Shape) Size() int {
	return s.Out * s.In
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Out, s.In)
}

// TotalSize sums the element counts of shapes.
func TotalSize(shapes []Shape) int {
	total := 0
	for _, s := range shapes {
		total += s.Size()
	}
	return total
}

// Params is an ordered stack of weight matrices. It is never written after
// construction, so one value may be evaluated from many goroutines.
type Params struct {
	layers []*mat.Dense
}

// CreateWeight draws a weight uniformly from [-1, 1).
func CreateWeight(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// NewPerceptron builds a single nAct x nObs matrix.
func NewPerceptron(nObs, nAct int, rng *rand.Rand) (Params, error) {
	return NewNetwork(nObs, nil, nAct, rng)
}

// NewNetwork builds one matrix per consecutive pair in
// [nObs, hidden..., nAct]. An empty hidden list gives the perceptron shape.
func NewNetwork(nObs int, hidden []int, nAct int, rng *rand.Rand) (Params, error) {
	shapes, err := LayerShapes(nObs, hidden, nAct)
	if err != nil {
		return Params{}, err
	}
	rng = ensureRNG(rng)

	layers := make([]*mat.Dense, 0, len(shapes))
	for _, s := range shapes {
		data := make([]float64, s.Size())
		for i := range data {
			data[i] = CreateWeight(rng)
		}
		layers = append(layers, mat.NewDense(s.Out, s.In, data))
	}
	return Params{layers: layers}, nil
}

// LayerShapes lists the matrix shapes for an nObs -> hidden... -> nAct stack.
func LayerShapes(nObs int, hidden []int, nAct int) ([]Shape, error) {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, nObs)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, nAct)

	shapes := make([]Shape, 0, len(sizes)-1)
	for i := 0; i+1 < len(sizes); i++ {
		shapes = append(shapes, Shape{Out: sizes[i+1], In: sizes[i]})
	}
	if err := validateShapes(shapes); err != nil {
		return nil, err
	}
	return shapes, nil
}

// NewParams copies the given matrices into a new container after checking
// that they chain.
func NewParams(layers []*mat.Dense) (Params, error) {
	shapes := make([]Shape, 0, len(layers))
	for _, layer := range layers {
		if layer == nil || layer.IsEmpty() {
			return Params{}, fmt.Errorf("%w: empty layer", ErrInvalidSize)
		}
		r, c := layer.Dims()
		shapes = append(shapes, Shape{Out: r, In: c})
	}
	if err := validateShapes(shapes); err != nil {
		return Params{}, err
	}
	out := make([]*mat.Dense, 0, len(layers))
	for _, layer := range layers {
		out = append(out, mat.DenseCopyOf(layer))
	}
	return Params{layers: out}, nil
}

// Shapes lists the layer shapes in forward order. It is the decoding
// template for genomes encoded from p.
func (p Params) Shapes() []Shape {
	shapes := make([]Shape, 0, len(p.layers))
	for _, layer := range p.layers {
		r, c := layer.Dims()
		shapes = append(shapes, Shape{Out: r, In: c})
	}
	return shapes
}

// Count is the total number of weights across all layers.
func (p Params) Count() int {
	return TotalSize(p.Shapes())
}

// NumLayers is the number of weight matrices.
func (p Params) NumLayers() int {
	return len(p.layers)
}

// Layer returns a copy of layer i.
func (p Params) Layer(i int) *mat.Dense {
	return mat.DenseCopyOf(p.layers[i])
}

// Select evaluates policy over the layer stack without copying it.
func (p Params) Select(policy nn.Policy, input []float64) (int, error) {
	return policy.Select(p.layers, input)
}

func (p Params) Outputs(policy nn.Policy, input []float64) ([]float64, error) {
	return policy.Outputs(p.layers, input)
}

// EqualApprox reports whether both containers have identical shapes and
// every weight differs by at most tol.
func (p Params) EqualApprox(other Params, tol float64) bool {
	if len(p.layers) != len(other.layers) {
		return false
	}
	for i := range p.layers {
		ar, ac := p.layers[i].Dims()
		br, bc := other.layers[i].Dims()
		if ar != br || ac != bc {
			return false
		}
		if !mat.EqualApprox(p.layers[i], other.layers[i], tol) {
			return false
		}
	}
	return true
}

func validateShapes(shapes []Shape) error {
	if len(shapes) == 0 {
		return fmt.Errorf("%w: no layers", ErrInvalidSize)
	}
	for i, s := range shapes {
		if s.Out <= 0 || s.In <= 0 {
			return fmt.Errorf("%w: layer %d is %s", ErrInvalidSize, i, s)
		}
		if i > 0 && shapes[i-1].Out != s.In {
			return fmt.Errorf("%w: layer %d is %s after %s", ErrShapeChain, i, s, shapes[i-1])
		}
	}
	return nil
}

func ensureRNG(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
