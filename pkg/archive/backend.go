package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// Backend identifiers accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFS     = "fs"
	BackendS3     = "s3"
)

// Common sentinel errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactExists   = errors.New("artifact already exists")
)

// Backend stores opaque artifact frames by key. Keys use forward slashes
// regardless of platform. Put is create-only: a second write to the same
// key fails with ErrArtifactExists.
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns keys with the given prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes a key. Returns (false, nil) if not found.
	Delete(ctx context.Context, key string) (bool, error)
	// Name returns the backend identifier, used as a metrics label.
	Name() string
}

// Config selects and parameterizes an artifact backend.
type Config struct {
	Backend   string `yaml:"backend"`
	Dir       string `yaml:"dir"`        // fs root directory
	Bucket    string `yaml:"bucket"`     // s3 bucket
	Region    string `yaml:"region"`     // s3 region, defaults to us-east-1
	Endpoint  string `yaml:"endpoint"`   // s3 custom endpoint (MinIO)
	PathStyle bool   `yaml:"path_style"` // s3 path-style addressing
}

// Validate checks the configuration before a backend is opened.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("archive").
		OneOf("Backend", c.Backend, []string{BackendMemory, BackendFS, BackendS3}).
		When(c.Backend == BackendFS, func(v *validation.ConfigValidator) {
			v.Required("Dir", c.Dir)
		}).
		When(c.Backend == BackendS3, func(v *validation.ConfigValidator) {
			v.Required("Bucket", c.Bucket)
		}).
		Validate()
}

// Open constructs the backend selected by cfg.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendFS:
		return NewFSBackend(cfg.Dir)
	case BackendS3:
		return NewS3Backend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
