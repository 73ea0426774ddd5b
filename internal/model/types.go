package model

import (
	"errors"
	"fmt"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// VersionedRecord captures schema and codec evolution for exchanged data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
	CodecVersion  int `json:"codec_version" yaml:"codec_version"`
}

func CurrentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func (v VersionedRecord) Check() error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}

// ActorSpec describes how to build an actor for a given pair of spaces.
type ActorSpec struct {
	VersionedRecord `yaml:",inline"`
	Kind            string `json:"kind" yaml:"kind"`
	HiddenLayers    []int  `json:"hidden_layers,omitempty" yaml:"hidden_layers,omitempty"`
	// Activation names the squashing function of a network actor. Empty
	// means sigmoid; other kinds leave it unset.
	Activation string `json:"activation,omitempty" yaml:"activation,omitempty"`
	Seed       int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// GenomeRecord pairs a genome with the signature of the layer shapes that
// produced it, so that it can be checked before decoding.
type GenomeRecord struct {
	VersionedRecord
	ActorID   string    `json:"actor_id"`
	Signature string    `json:"signature"`
	Genome    []float64 `json:"genome"`
}
