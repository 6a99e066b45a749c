package ingestion

import (
	"context"
	"fmt"
	"os"
	"time"

	"athens-property-lab/internal/domain"
)

// FileSource reads raw listings from a JSON file export. Used for
// replaying previously collected batches and in offline runs.
type FileSource struct {
	path string
	now  func() time.Time
}

// NewFileSource creates a source reading the JSON array at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

func (s *FileSource) Name() string {
	return fmt.Sprintf("file:%s", s.path)
}

// Fetch reads and decodes the whole file. Collection time is the read
// time, since file exports carry no per-record timestamps.
func (s *FileSource) Fetch(ctx context.Context) ([]*domain.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open listings file: %w", err)
	}
	defer f.Close()

	return DecodeRaw(f, domain.SourceFile, s.now().UnixMilli())
}

var _ ListingSource = (*FileSource)(nil)
