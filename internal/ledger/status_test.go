package ledger

import "testing"

func TestStatusOrdinalsAreFrozen(t *testing.T) {
	// The ordinal values are part of the contract wire format.
	if StatusPending != 0 || StatusVerified != 1 || StatusRejected != 2 {
		t.Fatalf("status ordinals changed: %d %d %d", StatusPending, StatusVerified, StatusRejected)
	}
}

func TestStatusNamesRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusVerified, StatusRejected} {
		parsed, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("parse %q: %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("round trip changed %v to %v", s, parsed)
		}
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Fatalf("lowercase name should not parse")
	}
}

func TestStatusFromOrdinalBounds(t *testing.T) {
	if _, err := StatusFromOrdinal(3); err == nil {
		t.Fatalf("ordinal 3 should be rejected")
	}
	if _, err := StatusFromOrdinal(-1); err == nil {
		t.Fatalf("negative ordinal should be rejected")
	}
	s, err := StatusFromOrdinal(2)
	if err != nil || s != StatusRejected {
		t.Fatalf("ordinal 2: got %v, %v", s, err)
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusVerified.Valid() {
		t.Fatalf("VERIFIED should be valid")
	}
	if Status(3).Valid() {
		t.Fatalf("status 3 should be invalid")
	}
}
