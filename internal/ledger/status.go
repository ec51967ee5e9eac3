package ledger

import "fmt"

// Status is the verification state of a record as stored on the ledger.
// The ordinal values are part of the contract wire format and must not be
// renumbered.
type Status uint8

const (
	StatusPending  Status = 0
	StatusVerified Status = 1
	StatusRejected Status = 2
)

// String returns the canonical uppercase name, which is also the value
// mirrored into the relational status column.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusVerified:
		return "VERIFIED"
	case StatusRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the three defined states.
func (s Status) Valid() bool {
	return s <= StatusRejected
}

// StatusFromOrdinal converts a wire ordinal into a Status.
func StatusFromOrdinal(v int) (Status, error) {
	if v < 0 || v > int(StatusRejected) {
		return 0, fmt.Errorf("invalid status ordinal: %d", v)
	}
	return Status(v), nil
}

// ParseStatus converts a canonical status name into a Status.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "PENDING":
		return StatusPending, nil
	case "VERIFIED":
		return StatusVerified, nil
	case "REJECTED":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("invalid status name: %q", name)
	}
}
