package resumes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"resume-ledger/internal/ledger"
	"resume-ledger/internal/shared/metrics"
	"resume-ledger/internal/shared/telemetry"
)

// Ledger is the contract call surface the orchestrator depends on.
type Ledger interface {
	Store(ctx context.Context, identifier, name, email, education, experience, skills, blobRef string) (*ledger.Receipt, error)
	Update(ctx context.Context, identifier, name, email, education, experience, skills, blobRef string) (*ledger.Receipt, error)
	Verify(ctx context.Context, identifier string, status ledger.Status, notes string) (*ledger.Receipt, error)
	Get(ctx context.Context, identifier string) (ledger.RecordSnapshot, error)
}

// Service orchestrates the dual write between the ledger and the relational
// store. Writes are ledger-first: the relational row is only touched after
// the ledger has confirmed, so a failed ledger call leaves the relational
// store unchanged. The gap between a confirmed ledger write and a lost
// relational write is repaired by Sync, never by a ledger rollback.
type Service struct {
	Repo   Repo
	Ledger Ledger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// lockRecord serializes dual writes per record so the relational mirror is
// applied in the same order as the record's ledger writes. Without it two
// concurrent verifies could confirm on the ledger in one order and save
// their rows in the other, leaving the stores divergent.
func (s *Service) lockRecord(id string) func() {
	s.locksMu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Create derives the content identifier, stores the record on the ledger and
// then inserts the relational row with status Pending.
//
// A duplicate identifier (identical field tuple already on the ledger) is
// treated as idempotent success rather than AlreadyStored, which makes
// whole-operation retries and crash recovery safe.
func (s *Service) Create(ctx context.Context, f Fields) (Resume, error) {
	contentHash := ledger.ContentHash(f.Name, f.Email, f.Education, f.WorkExperience, f.Skills)

	_, err := s.Ledger.Store(ctx, contentHash, f.Name, f.Email, f.Education, f.WorkExperience, f.Skills, f.BlobRef)
	if err != nil {
		if !errors.Is(err, ledger.ErrAlreadyStored) {
			return Resume{}, err
		}
		telemetry.Info("resume.create.duplicate_identifier", map[string]any{
			"content_hash": contentHash,
		})
		// Identical tuple already on the ledger. If the relational mirror
		// exists too, the whole create is a retry: return the row. If it
		// does not, a prior create died between the two writes and the
		// insert below repairs the gap.
		if existing, repoErr := s.Repo.GetByContentHash(ctx, contentHash); repoErr == nil {
			return existing, nil
		}
	}

	resume := Resume{
		ID:                uuid.NewString(),
		Name:              f.Name,
		Email:             f.Email,
		Phone:             f.Phone,
		Education:         f.Education,
		WorkExperience:    f.WorkExperience,
		Skills:            f.Skills,
		ContentHash:       contentHash,
		BlobRef:           f.BlobRef,
		Status:            ledger.StatusPending.String(),
		VerificationNotes: "",
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		// The ledger write is confirmed and irrevocable; report the gap
		// so the caller can run Sync.
		return Resume{}, fmt.Errorf("%w: ledger stored %s but relational insert failed: %v",
			ErrInconsistentState, contentHash, err)
	}

	metrics.IncResumeCreated()
	return s.Repo.GetByID(ctx, resume.ID)
}

// Get returns a resume by surrogate key. Reads never touch the ledger.
func (s *Service) Get(ctx context.Context, id string) (Resume, error) {
	if id == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns all resumes from the relational store.
func (s *Service) List(ctx context.Context) ([]Resume, error) {
	return s.Repo.List(ctx)
}

// Update overwrites the record's fields on the ledger under its original
// identifier, then mirrors the change into the relational row. The content
// identifier never changes across updates. A record that has never reached
// the ledger is lazily stored first.
func (s *Service) Update(ctx context.Context, id string, f Fields) (Resume, error) {
	defer s.lockRecord(id)()

	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}

	if err := s.ensureSynced(ctx, &resume); err != nil {
		return Resume{}, err
	}

	_, err = s.Ledger.Update(ctx, resume.ContentHash, f.Name, f.Email, f.Education, f.WorkExperience, f.Skills, f.BlobRef)
	if err != nil {
		return Resume{}, err
	}

	resume.Name = f.Name
	resume.Email = f.Email
	resume.Phone = f.Phone
	resume.Education = f.Education
	resume.WorkExperience = f.WorkExperience
	resume.Skills = f.Skills
	resume.BlobRef = f.BlobRef

	if err := s.Repo.Save(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("%w: ledger updated %s but relational save failed: %v",
			ErrInconsistentState, resume.ContentHash, err)
	}
	return s.Repo.GetByID(ctx, resume.ID)
}

// Verify drives the verification state machine: Pending, Verified and
// Rejected, with later verify calls allowed to move between Verified and
// Rejected and to replace the notes. An unsynced record is stored on the
// ledger first, using its existing fields.
func (s *Service) Verify(ctx context.Context, id string, status ledger.Status, notes string) (Resume, error) {
	if !status.Valid() {
		return Resume{}, ErrInvalidInput
	}

	defer s.lockRecord(id)()

	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}

	if err := s.ensureSynced(ctx, &resume); err != nil {
		return Resume{}, err
	}

	if _, err := s.Ledger.Verify(ctx, resume.ContentHash, status, notes); err != nil {
		return Resume{}, err
	}

	resume.Status = status.String()
	resume.VerificationNotes = notes
	if err := s.Repo.Save(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("%w: ledger verified %s but relational save failed: %v",
			ErrInconsistentState, resume.ContentHash, err)
	}

	metrics.IncResumeVerified(status.String())
	return s.Repo.GetByID(ctx, resume.ID)
}

// Delete removes only the relational row. Ledger history is immutable by
// design; the on-ledger entry outlives the row.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// LedgerSnapshot returns the on-ledger view for a record, for audit
// comparison against the relational row.
func (s *Service) LedgerSnapshot(ctx context.Context, id string) (ledger.RecordSnapshot, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return ledger.RecordSnapshot{}, err
	}
	if !resume.Synced() {
		return ledger.RecordSnapshot{}, ErrNotFound
	}
	snap, err := s.Ledger.Get(ctx, resume.ContentHash)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ledger.RecordSnapshot{}, fmt.Errorf("%w: row %s carries identifier %s unknown to the ledger",
				ErrInconsistentState, resume.ID, resume.ContentHash)
		}
		return ledger.RecordSnapshot{}, err
	}
	return snap, nil
}

// Sync reconstructs or repairs the relational row for a content identifier
// from the ledger snapshot. It is the compensating action for a crash
// between ledger confirmation and relational insertion.
func (s *Service) Sync(ctx context.Context, contentHash string) (Resume, error) {
	if contentHash == "" {
		return Resume{}, ErrInvalidInput
	}

	snap, err := s.Ledger.Get(ctx, contentHash)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			if _, repoErr := s.Repo.GetByContentHash(ctx, contentHash); repoErr == nil {
				return Resume{}, fmt.Errorf("%w: row exists for identifier %s but the ledger does not recognize it",
					ErrInconsistentState, contentHash)
			}
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}

	resume, err := s.Repo.GetByContentHash(ctx, contentHash)
	switch {
	case err == nil:
		// Row exists: overwrite the ledger-mirrored fields.
	case errors.Is(err, ErrNotFound):
		resume = Resume{ID: uuid.NewString(), ContentHash: contentHash}
		telemetry.Info("resume.sync.reconstructed", map[string]any{
			"resume_id":    resume.ID,
			"content_hash": contentHash,
		})
	default:
		return Resume{}, err
	}

	resume.Name = snap.Name
	resume.Email = snap.Email
	resume.Education = snap.Education
	resume.WorkExperience = snap.Experience
	resume.Skills = snap.Skills
	resume.BlobRef = snap.BlobRef
	resume.Status = snap.Status.String()
	resume.VerificationNotes = snap.Notes

	if err := s.Repo.Save(ctx, resume); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetByID(ctx, resume.ID)
}

// ensureSynced lazily stores a record that predates the ledger, assigning
// its content identifier from the fields it currently holds. The identifier
// is persisted immediately so a later failure cannot orphan the ledger
// entry.
func (s *Service) ensureSynced(ctx context.Context, resume *Resume) error {
	if resume.Synced() {
		return nil
	}

	contentHash := ledger.ContentHash(resume.Name, resume.Email, resume.Education, resume.WorkExperience, resume.Skills)
	_, err := s.Ledger.Store(ctx, contentHash, resume.Name, resume.Email, resume.Education, resume.WorkExperience, resume.Skills, resume.BlobRef)
	if err != nil && !errors.Is(err, ledger.ErrAlreadyStored) {
		return err
	}

	telemetry.Info("resume.lazy_sync", map[string]any{
		"resume_id":    resume.ID,
		"content_hash": contentHash,
	})

	resume.ContentHash = contentHash
	if err := s.Repo.Save(ctx, *resume); err != nil {
		return fmt.Errorf("%w: ledger stored %s but relational save failed: %v",
			ErrInconsistentState, contentHash, err)
	}
	return nil
}
