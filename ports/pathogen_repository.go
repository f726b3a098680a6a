package ports

import (
	"context"

	"goqmra/internal/pathogen"
)

// PathogenRepository resolves pathogen parameter records. Unknown names fail
// with an error wrapping core.ErrNotFound that lists the available pathogens.
type PathogenRepository interface {
	ListPathogens(ctx context.Context) ([]pathogen.Record, error)
	GetPathogen(ctx context.Context, name string) (*pathogen.Record, error)
}
