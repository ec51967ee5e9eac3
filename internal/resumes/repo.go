package resumes

import "context"

// Repo defines the keyed relational persistence for resumes. Save is an
// upsert by surrogate key and runs inside the store's own transaction
// boundary.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	GetByContentHash(ctx context.Context, contentHash string) (Resume, error)
	List(ctx context.Context) ([]Resume, error)
	Save(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id string) error
}
