package genotype

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"genactor/internal/model"
)

var (
	ErrGenomeLength  = errors.New("genome length does not match template")
	ErrShapeMismatch = errors.New("genome signature does not match template")
)

// Encode flattens every layer row-major, in forward order, and rescales
// each weight from [-1, 1] to [0, 1] via (w+1)/2.
func Encode(p Params) []float64 {
	genome := make([]float64, 0, p.Count())
	for _, layer := range p.layers {
		raw := layer.RawMatrix()
		for r := 0; r < raw.Rows; r++ {
			row := raw.Data[r*raw.Stride : r*raw.Stride+raw.Cols]
			for _, w := range row {
				genome = append(genome, (w+1)/2)
			}
		}
	}
	return genome
}

// Decode rebuilds a container with the given shapes, consuming Out*In
// genome values per layer and mapping each back via 2g-1. Values outside
// [0, 1] decode linearly to weights outside [-1, 1].
func Decode(genome []float64, shapes []Shape) (Params, error) {
	if err := validateShapes(shapes); err != nil {
		return Params{}, err
	}
	if want := TotalSize(shapes); len(genome) != want {
		return Params{}, fmt.Errorf("%w: got=%d want=%d", ErrGenomeLength, len(genome), want)
	}

	layers := make([]*mat.Dense, 0, len(shapes))
	offset := 0
	for _, s := range shapes {
		data := make([]float64, s.Size())
		for i := range data {
			data[i] = 2*genome[offset+i] - 1
		}
		layers = append(layers, mat.NewDense(s.Out, s.In, data))
		offset += s.Size()
	}
	return Params{layers: layers}, nil
}

// NewRecord encodes p together with the signature of its shapes.
func NewRecord(actorID string, p Params) model.GenomeRecord {
	return model.GenomeRecord{
		VersionedRecord: model.CurrentVersion(),
		ActorID:         actorID,
		Signature:       Signature(p.Shapes()),
		Genome:          Encode(p),
	}
}

// DecodeRecord decodes rec after checking its version and that it was
// produced by a container with the same shapes.
func DecodeRecord(rec model.GenomeRecord, shapes []Shape) (Params, error) {
	if err := rec.Check(); err != nil {
		return Params{}, err
	}
	if want := Signature(shapes); rec.Signature != want {
		return Params{}, fmt.Errorf("%w: got=%s want=%s", ErrShapeMismatch, rec.Signature, want)
	}
	return Decode(rec.Genome, shapes)
}
