package deposit

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/depositlabs/deposit-auditor/types"
)

// Field lengths of the five DepositEvent arguments.
const (
	PubkeyLength      = 48
	CredentialsLength = 32
	AmountLength      = 8
	SignatureLength   = 96
	IndexLength       = 8
)

// The event payload is the ABI encoding of five dynamic byte arrays: a
// head of five 32-byte offset words, then per field one 32-byte length
// word followed by the bytes padded up to a 32-byte boundary. The
// offsets below are fixed by that arithmetic and never re-derived at
// decode time.
const (
	wordLength = 32
	headLength = 5 * wordLength

	pubkeyPadded      = 2 * wordLength // 48 -> 64
	credentialsPadded = wordLength     // 32 -> 32
	amountPadded      = wordLength     // 8 -> 32
	signaturePadded   = 3 * wordLength // 96 -> 96

	PubkeyOffset      = headLength + wordLength                             // 192
	CredentialsOffset = PubkeyOffset + pubkeyPadded + wordLength            // 288
	AmountOffset      = CredentialsOffset + credentialsPadded + wordLength  // 352
	SignatureOffset   = AmountOffset + amountPadded + wordLength            // 416
	IndexOffset       = SignatureOffset + signaturePadded + wordLength      // 544

	// EncodedLength is the full payload size of a well-formed event.
	EncodedLength = IndexOffset + wordLength // 576
)

// MissingPrefixError indicates a wire hex field without the 0x prefix.
type MissingPrefixError struct {
	Field string
}

func (e *MissingPrefixError) Error() string {
	return fmt.Sprintf("deposit log field %q missing 0x prefix", e.Field)
}

// TruncatedError indicates a payload too short to hold a required field.
type TruncatedError struct {
	Field string
	Need  int
	Have  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("deposit log truncated: field %q needs %d bytes, payload has %d", e.Field, e.Need, e.Have)
}

// InvalidEncodingError indicates a field whose raw bytes cannot be
// parsed, e.g. non-hex payload text or a fixed-width integer slice of
// the wrong byte count.
type InvalidEncodingError struct {
	Field  string
	Reason string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("deposit log field %q has invalid encoding: %s", e.Field, e.Reason)
}

// Record is one decoded DepositEvent.
type Record struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
	Signature             []byte
	Index                 uint64

	// BlockNumber is carried from the source log for error context.
	BlockNumber uint64
}

// Equal reports whether two records carry identical content. Used to
// tell a redundant re-delivery apart from a corrupted duplicate.
func (r *Record) Equal(other *Record) bool {
	return r.Index == other.Index &&
		r.Amount == other.Amount &&
		bytes.Equal(r.Pubkey, other.Pubkey) &&
		bytes.Equal(r.WithdrawalCredentials, other.WithdrawalCredentials) &&
		bytes.Equal(r.Signature, other.Signature)
}

// Decode parses the hex payload of a raw deposit log into a Record. It
// never panics on short input and never returns partial data.
func Decode(log types.RawLog) (*Record, error) {
	if !strings.HasPrefix(log.Data, "0x") {
		return nil, &MissingPrefixError{Field: "data"}
	}
	data, err := hex.DecodeString(log.Data[2:])
	if err != nil {
		return nil, &InvalidEncodingError{Field: "data", Reason: err.Error()}
	}

	// The index is the minimum the validator needs, check its extent
	// before any field read.
	if len(data) < IndexOffset+IndexLength {
		return nil, &TruncatedError{Field: "index", Need: IndexOffset + IndexLength, Have: len(data)}
	}

	pubkey, err := readBytes(data, "pubkey", PubkeyOffset, PubkeyLength)
	if err != nil {
		return nil, err
	}
	credentials, err := readBytes(data, "withdrawal_credentials", CredentialsOffset, CredentialsLength)
	if err != nil {
		return nil, err
	}
	amountBytes, err := readBytes(data, "amount", AmountOffset, AmountLength)
	if err != nil {
		return nil, err
	}
	amount, err := parseLittleEndianUint64("amount", amountBytes)
	if err != nil {
		return nil, err
	}
	signature, err := readBytes(data, "signature", SignatureOffset, SignatureLength)
	if err != nil {
		return nil, err
	}
	indexBytes, err := readBytes(data, "index", IndexOffset, IndexLength)
	if err != nil {
		return nil, err
	}
	index, err := parseLittleEndianUint64("index", indexBytes)
	if err != nil {
		return nil, err
	}

	return &Record{
		Pubkey:                pubkey,
		WithdrawalCredentials: credentials,
		Amount:                amount,
		Signature:             signature,
		Index:                 index,
		BlockNumber:           log.BlockNumber,
	}, nil
}

func readBytes(data []byte, field string, offset, length int) ([]byte, error) {
	if len(data) < offset+length {
		return nil, &TruncatedError{Field: field, Need: offset + length, Have: len(data)}
	}
	out := make([]byte, length)
	copy(out, data[offset:offset+length])
	return out, nil
}

// parseLittleEndianUint64 parses a contract-native little-endian u64.
func parseLittleEndianUint64(field string, raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, &InvalidEncodingError{Field: field, Reason: fmt.Sprintf("expected 8 little-endian bytes, got %d", len(raw))}
	}
	return binary.LittleEndian.Uint64(raw), nil
}
