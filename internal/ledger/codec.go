package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

// The contract ABI is fixed: a 4-byte function selector (leading bytes of
// SHA-256 over the signature string) followed by arguments encoded as
// big-endian uint32 length-prefixed UTF-8 strings, raw 20-byte addresses,
// uint8 status ordinals and big-endian uint64 integers.

const selectorLength = 4

// Function signatures of the resume verification contract.
const (
	sigStore          = "storeResume(string,string,string,string,string,string,string)"
	sigUpdate         = "updateResume(string,string,string,string,string,string,string)"
	sigVerify         = "verifyResume(string,uint8,string)"
	sigGet            = "getResume(string)"
	sigAddVerifier    = "addVerifier(address)"
	sigRemoveVerifier = "removeVerifier(address)"
)

func selector(signature string) [selectorLength]byte {
	sum := sha256.Sum256([]byte(signature))
	var sel [selectorLength]byte
	copy(sel[:], sum[:selectorLength])
	return sel
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendCall(signature string, encode func(buf []byte) []byte) []byte {
	sel := selector(signature)
	return encode(sel[:])
}

func encodeStore(identifier, name, email, education, experience, skills, blobRef string) []byte {
	return appendCall(sigStore, func(buf []byte) []byte {
		for _, s := range []string{identifier, name, email, education, experience, skills, blobRef} {
			buf = appendString(buf, s)
		}
		return buf
	})
}

func encodeUpdate(identifier, name, email, education, experience, skills, blobRef string) []byte {
	return appendCall(sigUpdate, func(buf []byte) []byte {
		for _, s := range []string{identifier, name, email, education, experience, skills, blobRef} {
			buf = appendString(buf, s)
		}
		return buf
	})
}

func encodeVerify(identifier string, status Status, notes string) []byte {
	return appendCall(sigVerify, func(buf []byte) []byte {
		buf = appendString(buf, identifier)
		buf = append(buf, byte(status))
		return appendString(buf, notes)
	})
}

func encodeGet(identifier string) []byte {
	return appendCall(sigGet, func(buf []byte) []byte {
		return appendString(buf, identifier)
	})
}

func encodeAddVerifier(addr Address) []byte {
	return appendCall(sigAddVerifier, func(buf []byte) []byte {
		return append(buf, addr[:]...)
	})
}

func encodeRemoveVerifier(addr Address) []byte {
	return appendCall(sigRemoveVerifier, func(buf []byte) []byte {
		return append(buf, addr[:]...)
	})
}

// RecordSnapshot is the ledger-held view of a record as returned by the
// contract's get function.
type RecordSnapshot struct {
	Name       string
	Email      string
	Education  string
	Experience string
	Skills     string
	BlobRef    string
	StoredAt   time.Time
	Owner      Address
	Status     Status
	Notes      string
	VerifiedAt time.Time
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	if d.off+4 > len(d.buf) {
		d.err = fmt.Errorf("decode: truncated string length at offset %d", d.off)
		return ""
	}
	n := int(binary.BigEndian.Uint32(d.buf[d.off:]))
	d.off += 4
	if d.off+n > len(d.buf) {
		d.err = fmt.Errorf("decode: truncated string body at offset %d", d.off)
		return ""
	}
	s := string(d.buf[d.off : d.off+n])
	d.off += n
	return s
}

func (d *decoder) uint64() uint64 {
	if d.err != nil {
		return 0
	}
	if d.off+8 > len(d.buf) {
		d.err = fmt.Errorf("decode: truncated uint64 at offset %d", d.off)
		return 0
	}
	v := binary.BigEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v
}

func (d *decoder) uint8() uint8 {
	if d.err != nil {
		return 0
	}
	if d.off >= len(d.buf) {
		d.err = fmt.Errorf("decode: truncated uint8 at offset %d", d.off)
		return 0
	}
	v := d.buf[d.off]
	d.off++
	return v
}

func (d *decoder) address() Address {
	var a Address
	if d.err != nil {
		return a
	}
	if d.off+AddressLength > len(d.buf) {
		d.err = fmt.Errorf("decode: truncated address at offset %d", d.off)
		return a
	}
	copy(a[:], d.buf[d.off:])
	d.off += AddressLength
	return a
}

// decodeSnapshot decodes the getResume return tuple.
func decodeSnapshot(raw []byte) (RecordSnapshot, error) {
	d := &decoder{buf: raw}
	snap := RecordSnapshot{
		Name:       d.str(),
		Email:      d.str(),
		Education:  d.str(),
		Experience: d.str(),
		Skills:     d.str(),
		BlobRef:    d.str(),
	}
	storedAt := d.uint64()
	snap.Owner = d.address()
	ordinal := d.uint8()
	snap.Notes = d.str()
	verifiedAt := d.uint64()
	if d.err != nil {
		return RecordSnapshot{}, d.err
	}

	status, err := StatusFromOrdinal(int(ordinal))
	if err != nil {
		return RecordSnapshot{}, err
	}
	snap.Status = status
	snap.StoredAt = time.Unix(int64(storedAt), 0).UTC()
	if verifiedAt > 0 {
		snap.VerifiedAt = time.Unix(int64(verifiedAt), 0).UTC()
	}
	return snap, nil
}

// encodeSnapshot renders a snapshot in the contract's return encoding. It is
// the inverse of decodeSnapshot and exists for fakes and tests.
func encodeSnapshot(snap RecordSnapshot) []byte {
	var buf []byte
	for _, s := range []string{snap.Name, snap.Email, snap.Education, snap.Experience, snap.Skills, snap.BlobRef} {
		buf = appendString(buf, s)
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(snap.StoredAt.Unix()))
	buf = append(buf, snap.Owner[:]...)
	buf = append(buf, byte(snap.Status))
	buf = appendString(buf, snap.Notes)
	var verifiedAt uint64
	if !snap.VerifiedAt.IsZero() {
		verifiedAt = uint64(snap.VerifiedAt.Unix())
	}
	return binary.BigEndian.AppendUint64(buf, verifiedAt)
}
