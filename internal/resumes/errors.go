package resumes

import "errors"

var (
	// ErrNotFound means no relational row exists for the requested key.
	ErrNotFound = errors.New("resume not found")
	// ErrInvalidInput covers malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInconsistentState means the relational and ledger views disagree:
	// a row carries an identifier the ledger does not recognize, or the
	// relational write after a confirmed ledger write failed. The sync
	// recovery path is the repair, never a ledger rollback.
	ErrInconsistentState = errors.New("relational and ledger state diverged")
)
