package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Transaction is a contract-mutating call before signing.
type Transaction struct {
	Nonce uint64
	From  Address
	To    Address
	Data  []byte
}

// encode renders the unsigned payload deterministically:
// nonce ‖ from ‖ to ‖ len(data) ‖ data.
func (tx Transaction) encode() []byte {
	buf := make([]byte, 0, 8+2*AddressLength+4+len(tx.Data))
	buf = binary.BigEndian.AppendUint64(buf, tx.Nonce)
	buf = append(buf, tx.From[:]...)
	buf = append(buf, tx.To[:]...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(tx.Data)))
	return append(buf, tx.Data...)
}

// Sign signs the SHA-256 digest of the encoded payload and returns the raw
// transaction as 0x-prefixed hex of payload ‖ signature.
func (tx Transaction) Sign(account *Account) string {
	payload := tx.encode()
	digest := sha256.Sum256(payload)
	sig := account.Sign(digest[:])
	return "0x" + hex.EncodeToString(append(payload, sig...))
}
