package resumes

import "time"

// Resume is the canonical record. The surrogate ID is store-assigned and
// immutable; ContentHash links the row to its on-ledger counterpart and is
// empty until the first confirmed ledger store.
type Resume struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Education         string    `json:"education"`
	WorkExperience    string    `json:"workExperience"`
	Skills            string    `json:"skills"`
	ContentHash       string    `json:"contentHash,omitempty"`
	BlobRef           string    `json:"blobRef,omitempty"`
	Status            string    `json:"status"`
	VerificationNotes string    `json:"verificationNotes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Synced reports whether the record has a confirmed ledger entry.
func (r Resume) Synced() bool {
	return r.ContentHash != ""
}

// Fields is the ordered tuple that feeds the content hasher and the ledger
// calls.
type Fields struct {
	Name           string
	Email          string
	Phone          string
	Education      string
	WorkExperience string
	Skills         string
	BlobRef        string
}
