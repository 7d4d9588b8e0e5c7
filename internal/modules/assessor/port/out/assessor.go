package out

import (
	"context"

	"stc/internal/modules/assessor/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host drives an out-of-process assessor binary.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Assess(ctx context.Context, manifest domain.Manifest, req domain.AssessRequest) (domain.Result, error)
}

// Provider is an in-process assessor.
type Provider interface {
	Metadata() domain.Metadata
	Assess(ctx context.Context, req domain.AssessRequest) (domain.Result, error)
}
