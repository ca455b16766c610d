package deposit

import (
	"encoding/binary"
	"encoding/hex"
)

// encodeDepositEvent builds the ABI payload of one DepositEvent the way
// the contract emits it: a five-word offset head, then per field a
// length word followed by the bytes padded to a 32-byte boundary.
func encodeDepositEvent(pubkey, credentials []byte, amount uint64, signature []byte, index uint64) string {
	amountBytes := make([]byte, AmountLength)
	binary.LittleEndian.PutUint64(amountBytes, amount)
	indexBytes := make([]byte, IndexLength)
	binary.LittleEndian.PutUint64(indexBytes, index)

	fields := [][]byte{pubkey, credentials, amountBytes, signature, indexBytes}

	buf := make([]byte, 0, EncodedLength)
	offset := uint64(len(fields) * wordLength)
	for _, field := range fields {
		buf = append(buf, abiWord(offset)...)
		offset += wordLength + padded(len(field))
	}
	for _, field := range fields {
		buf = append(buf, abiWord(uint64(len(field)))...)
		buf = append(buf, field...)
		buf = append(buf, make([]byte, int(padded(len(field)))-len(field))...)
	}
	return "0x" + hex.EncodeToString(buf)
}

func abiWord(v uint64) []byte {
	word := make([]byte, wordLength)
	binary.BigEndian.PutUint64(word[wordLength-8:], v)
	return word
}

func padded(n int) uint64 {
	return uint64((n + wordLength - 1) / wordLength * wordLength)
}

func testField(length int, fill byte) []byte {
	field := make([]byte, length)
	for i := range field {
		field[i] = fill
	}
	return field
}
