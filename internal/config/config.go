package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"genactor/internal/model"
	"genactor/internal/nn"
)

const (
	EnvKind         = "GENACTOR_KIND"
	EnvHiddenLayers = "GENACTOR_HIDDEN_LAYERS"
	EnvActivation   = "GENACTOR_ACTIVATION"
	EnvSeed         = "GENACTOR_SEED"

	defaultEnvFile = ".env"
	DefaultKind    = "perceptron"
)

var ErrInvalidConfig = errors.New("invalid actor config")

type options struct {
	envFile string
	logger  *slog.Logger
}

type Option func(*options)

// WithEnvFile loads the given dotenv file instead of ./.env. A missing
// explicit file is an error; a missing ./.env is not.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Default is a perceptron spec at the current record version.
func Default() model.ActorSpec {
	return model.ActorSpec{VersionedRecord: model.CurrentVersion(), Kind: DefaultKind}
}

// Load reads an actor spec from a YAML file, then applies environment
// overrides. An empty path starts from Default().
func Load(path string, opts ...Option) (model.ActorSpec, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := loadEnvFile(o); err != nil {
		return model.ActorSpec{}, err
	}

	spec := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.ActorSpec{}, fmt.Errorf("read config %s: %w", path, err)
		}
		spec, err = Parse(data)
		if err != nil {
			return model.ActorSpec{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		o.logger.Debug("actor config loaded", "path", path, "kind", spec.Kind)
	}

	if err := applyEnv(&spec, o.logger); err != nil {
		return model.ActorSpec{}, err
	}
	if err := Validate(spec); err != nil {
		return model.ActorSpec{}, err
	}
	return spec, nil
}

// Parse decodes a YAML actor spec. Unknown fields are rejected.
func Parse(data []byte) (model.ActorSpec, error) {
	var spec model.ActorSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return model.ActorSpec{}, err
	}
	return spec, nil
}

// Validate checks the record version, the kind, the hidden sizes and that a
// named activation is registered.
func Validate(spec model.ActorSpec) error {
	if err := spec.Check(); err != nil {
		return err
	}
	if strings.TrimSpace(spec.Kind) == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidConfig)
	}
	for i, size := range spec.HiddenLayers {
		if size <= 0 {
			return fmt.Errorf("%w: hidden layer %d has size %d", ErrInvalidConfig, i, size)
		}
	}
	if spec.Activation != "" {
		if _, err := nn.GetActivation(spec.Activation); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

func loadEnvFile(o options) error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", o.envFile, err)
		}
		o.logger.Debug("env file loaded", "path", o.envFile)
		return nil
	}
	if _, err := os.Stat(defaultEnvFile); err != nil {
		return nil
	}
	if err := godotenv.Load(defaultEnvFile); err != nil {
		return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}
	o.logger.Debug("env file loaded", "path", defaultEnvFile)
	return nil
}

func applyEnv(spec *model.ActorSpec, logger *slog.Logger) error {
	if v, ok := lookup(EnvKind); ok {
		spec.Kind = v
		logger.Debug("config override", "env", EnvKind)
	}
	if v, ok := lookup(EnvHiddenLayers); ok {
		layers, err := parseLayers(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvHiddenLayers, err)
		}
		spec.HiddenLayers = layers
		logger.Debug("config override", "env", EnvHiddenLayers)
	}
	if v, ok := lookup(EnvActivation); ok {
		spec.Activation = v
		logger.Debug("config override", "env", EnvActivation)
	}
	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvSeed, err)
		}
		spec.Seed = seed
		logger.Debug("config override", "env", EnvSeed)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// parseLayers reads a comma-separated size list; an empty string clears it.
func parseLayers(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	layers := make([]int, 0, len(parts))
	for _, part := range parts {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		layers = append(layers, size)
	}
	return layers, nil
}
