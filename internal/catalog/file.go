package catalog

import (
	"context"

	"frequency-workers/internal/models"
	"frequency-workers/pkg/registry"
)

// File reads a YAML frequency registry from disk on every fetch.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reg, err := registry.LoadRegistry(f.path)
	if err != nil {
		return nil, err
	}
	return reg.Frequencies, nil
}
