package agent

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"genactor/internal/model"
	"genactor/internal/space"
)

var (
	ErrKindExists   = errors.New("actor kind already registered")
	ErrKindNotFound = errors.New("actor kind not found")
	ErrKindVersion  = errors.New("actor kind version mismatch")
)

// Factory builds an actor of one kind from a spec.
type Factory func(spec model.ActorSpec, obs space.Box, act space.Discrete, opts ...Option) (Actor, error)

type KindSpec struct {
	Name          string
	Factory       Factory
	SchemaVersion int
	CodecVersion  int
}

type registeredKind struct {
	factory       Factory
	schemaVersion int
	codecVersion  int
}

var kindRegistry = struct {
	mu sync.RWMutex
	m  map[string]registeredKind
}{
	m: make(map[string]registeredKind),
}

func init() {
	initializeBuiltInKinds()
}

func initializeBuiltInKinds() {
	MustRegisterKind(KindRandom, func(spec model.ActorSpec, obs space.Box, act space.Discrete, opts ...Option) (Actor, error) {
		return NewRandomActor(obs, act, opts...), nil
	})
	MustRegisterKind(KindPerceptron, func(spec model.ActorSpec, obs space.Box, act space.Discrete, opts ...Option) (Actor, error) {
		if len(spec.HiddenLayers) > 0 {
			return nil, fmt.Errorf("%w: perceptron takes no hidden layers, got %v", ErrInvalidSpec, spec.HiddenLayers)
		}
		if spec.Activation != "" {
			return nil, fmt.Errorf("%w: perceptron is linear, got activation %q", ErrInvalidSpec, spec.Activation)
		}
		return NewPerceptronActor(obs, act, opts...)
	})
	MustRegisterKind(KindNetwork, func(spec model.ActorSpec, obs space.Box, act space.Discrete, opts ...Option) (Actor, error) {
		opts = append([]Option{WithActivation(spec.Activation)}, opts...)
		return NewNetworkActor(obs, act, spec.HiddenLayers, opts...)
	})
}

// RegisterKind adds a factory under name at the current record version.
// Names are matched case-insensitively.
func RegisterKind(name string, factory Factory) error {
	return RegisterKindWithSpec(KindSpec{
		Name:          name,
		Factory:       factory,
		SchemaVersion: model.CurrentSchemaVersion,
		CodecVersion:  model.CurrentCodecVersion,
	})
}

func MustRegisterKind(name string, factory Factory) {
	if err := RegisterKind(name, factory); err != nil {
		panic(err)
	}
}

func RegisterKindWithSpec(spec KindSpec) error {
	name := normalizeKind(spec.Name)
	if name == "" {
		return errors.New("actor kind name is required")
	}
	if spec.Factory == nil {
		return errors.New("actor kind factory is required")
	}
	if spec.SchemaVersion != model.CurrentSchemaVersion || spec.CodecVersion != model.CurrentCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrKindVersion, spec.SchemaVersion, spec.CodecVersion)
	}

	kindRegistry.mu.Lock()
	defer kindRegistry.mu.Unlock()

	if _, exists := kindRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrKindExists, name)
	}
	kindRegistry.m[name] = registeredKind{
		factory:       spec.Factory,
		schemaVersion: spec.SchemaVersion,
		codecVersion:  spec.CodecVersion,
	}
	return nil
}

// ResolveKind returns the factory registered under name.
func ResolveKind(name string) (Factory, error) {
	kindRegistry.mu.RLock()
	entry, ok := kindRegistry.m[normalizeKind(name)]
	kindRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKindNotFound, name)
	}
	return entry.factory, nil
}

func ListKinds() []string {
	kindRegistry.mu.RLock()
	defer kindRegistry.mu.RUnlock()

	names := make([]string, 0, len(kindRegistry.m))
	for name := range kindRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the actor described by spec. A non-zero spec seed applies
// unless an explicit rand source is passed in opts, so repeated calls with
// the same seeded spec build actors with identical weights.
func New(spec model.ActorSpec, obs space.Box, act space.Discrete, opts ...Option) (Actor, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	factory, err := ResolveKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	if spec.Seed != 0 {
		opts = append([]Option{WithSeed(spec.Seed)}, opts...)
	}
	return factory(spec, obs, act, opts...)
}

func normalizeKind(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func resetKindRegistryForTests() {
	kindRegistry.mu.Lock()
	kindRegistry.m = make(map[string]registeredKind)
	kindRegistry.mu.Unlock()
	initializeBuiltInKinds()
}
