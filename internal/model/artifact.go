package model

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArtifactSource opens serialized model artifacts by key.
type ArtifactSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	String() string
}

// ArtifactKeys names the two artifacts within a source.
type ArtifactKeys struct {
	Scaler    string
	Regressor string
}

// DefaultArtifactKeys matches the files shipped under models/.
var DefaultArtifactKeys = ArtifactKeys{Scaler: "scaler.json", Regressor: "ridge.json"}

// DirSource reads artifacts from a local directory.
type DirSource struct {
	Dir string
}

// Open opens key relative to the directory.
func (s DirSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir, filepath.Clean("/"+key)))
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

func (s DirSource) String() string {
	return "dir:" + s.Dir
}
