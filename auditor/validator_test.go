package auditor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depositlabs/deposit-auditor/deposit"
)

func testRecord(index uint64, fill byte) *deposit.Record {
	field := func(length int) []byte {
		b := make([]byte, length)
		for i := range b {
			b[i] = fill
		}
		return b
	}
	return &deposit.Record{
		Pubkey:                field(deposit.PubkeyLength),
		WithdrawalCredentials: field(deposit.CredentialsLength),
		Amount:                32_000_000_000,
		Signature:             field(deposit.SignatureLength),
		Index:                 index,
		BlockNumber:           11184524 + index,
	}
}

func TestValidatorAcceptsContiguousSeries(t *testing.T) {
	v := NewContiguityValidator()
	const n = 100
	for i := uint64(0); i < n; i++ {
		accepted, err := v.Process(testRecord(i, byte(i)))
		require.NoError(t, err)
		require.True(t, accepted)
	}
	require.Equal(t, uint64(n), v.NextExpected())
	require.Equal(t, n, v.AcceptedCount())
}

func TestValidatorDetectsGap(t *testing.T) {
	v := NewContiguityValidator()
	for _, i := range []uint64{0, 1} {
		_, err := v.Process(testRecord(i, 0))
		require.NoError(t, err)
	}

	_, err := v.Process(testRecord(3, 0))
	var gap *GapError
	require.ErrorAs(t, err, &gap)
	require.Equal(t, uint64(2), gap.Expected)
	require.Equal(t, uint64(3), gap.Got)
}

func TestValidatorToleratesIdenticalDuplicate(t *testing.T) {
	v := NewContiguityValidator()
	for _, i := range []uint64{0, 1} {
		_, err := v.Process(testRecord(i, byte(i)))
		require.NoError(t, err)
	}

	// redundant re-delivery of index 1 with identical content
	accepted, err := v.Process(testRecord(1, 1))
	require.NoError(t, err)
	require.False(t, accepted)

	accepted, err = v.Process(testRecord(2, 2))
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, uint64(3), v.NextExpected())
	require.Equal(t, 3, v.AcceptedCount())
}

func TestValidatorDetectsCorruptedDuplicate(t *testing.T) {
	v := NewContiguityValidator()
	for _, i := range []uint64{0, 1} {
		_, err := v.Process(testRecord(i, byte(i)))
		require.NoError(t, err)
	}

	// same index, different content
	corrupted := testRecord(1, 0xff)
	_, err := v.Process(corrupted)
	var mismatch *DuplicateMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint64(1), mismatch.Index)
}

// The node may re-deliver logs at chunk boundaries: with nextExpected at
// 5, receiving 5, 6, 6 (the second 6 byte-identical) must accept all
// three and advance to 7.
func TestValidatorChunkOverlapScenario(t *testing.T) {
	v := NewContiguityValidator()
	for i := uint64(0); i < 5; i++ {
		_, err := v.Process(testRecord(i, byte(i)))
		require.NoError(t, err)
	}
	require.Equal(t, uint64(5), v.NextExpected())

	for _, i := range []uint64{5, 6, 6} {
		_, err := v.Process(testRecord(i, byte(i)))
		require.NoError(t, err)
	}
	require.Equal(t, uint64(7), v.NextExpected())
	require.Equal(t, 7, v.AcceptedCount())
}
