package ledger

import "errors"

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrNotFound means the ledger holds no record under the identifier.
	ErrNotFound = errors.New("ledger: record not found")
	// ErrAlreadyStored means the contract rejected a duplicate identifier.
	ErrAlreadyStored = errors.New("ledger: record already stored")
	// ErrUnavailable means the node could not be reached.
	ErrUnavailable = errors.New("ledger: node unavailable")
	// ErrTimeout means a submitted transaction was not included before the
	// confirmation deadline. The nonce it consumed is not reusable.
	ErrTimeout = errors.New("ledger: confirmation timed out")
)

// Kind is a stable category for programmatic error handling. Callers should
// branch on Kind rather than matching error strings.
type Kind string

const (
	KindNotFound      Kind = "NotFound"
	KindAlreadyStored Kind = "AlreadyStored"
	KindRejected      Kind = "Rejected"
	KindUnavailable   Kind = "Unavailable"
	KindTimeout       Kind = "Timeout"
)

// Error is the structured error returned by the ledger client. Reason carries
// the node's revert reason verbatim when Kind is KindRejected.
type Error struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return "ledger: " + string(e.Kind) + ": " + e.Reason
	}
	return "ledger: " + string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is maps structured kinds onto the sentinel errors so both styles work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrAlreadyStored:
		return e.Kind == KindAlreadyStored
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrTimeout:
		return e.Kind == KindTimeout
	}
	return false
}

func rejected(reason string) error {
	switch reason {
	case ReasonAlreadyStored:
		return &Error{Kind: KindAlreadyStored, Reason: reason}
	case ReasonNotFound:
		return &Error{Kind: KindNotFound, Reason: reason}
	}
	return &Error{Kind: KindRejected, Reason: reason}
}

func unavailable(cause error) error {
	return &Error{Kind: KindUnavailable, Cause: cause}
}

// Revert reasons emitted by the resume verification contract.
const (
	ReasonAlreadyStored = "resume already exists"
	ReasonNotFound      = "resume does not exist"
	ReasonNotAuthorized = "caller is not an authorized verifier"
)
