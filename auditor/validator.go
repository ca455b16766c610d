package auditor

import (
	"fmt"

	"github.com/depositlabs/deposit-auditor/deposit"
)

// GapError indicates a decoded index larger than the next expected one,
// i.e. a deposit log the node never delivered. Always fatal.
type GapError struct {
	Expected    uint64
	Got         uint64
	BlockNumber uint64
}

func (e *GapError) Error() string {
	return fmt.Sprintf("deposit index gap at block %d: expected index %d, got %d", e.BlockNumber, e.Expected, e.Got)
}

// DuplicateMismatchError indicates a re-delivered index whose record
// content differs from the previously accepted record at that position.
// Always treated as corruption, never as stale data.
type DuplicateMismatchError struct {
	Index       uint64
	BlockNumber uint64
}

func (e *DuplicateMismatchError) Error() string {
	return fmt.Sprintf("duplicate deposit index %d at block %d does not match previously accepted record", e.Index, e.BlockNumber)
}

// ContiguityValidator checks that decoded deposit indices form the
// exact series 0, 1, 2, ... across chunk boundaries. Records must be
// fed in ascending block-number order, log order within a block.
//
// An index below nextExpected is tolerated only as a byte-identical
// re-delivery of an already accepted record; the node may return
// overlapping results for adjacent ranges since toBlock inclusivity is
// unspecified.
type ContiguityValidator struct {
	nextExpected uint64
	accepted     []*deposit.Record
}

func NewContiguityValidator() *ContiguityValidator {
	return &ContiguityValidator{
		accepted: make([]*deposit.Record, 0),
	}
}

// Process runs one state transition. It returns whether the record was
// newly accepted (false for a tolerated re-delivery) and the first
// violation as a fatal error.
func (v *ContiguityValidator) Process(rec *deposit.Record) (bool, error) {
	switch {
	case rec.Index == v.nextExpected:
		v.accepted = append(v.accepted, rec)
		v.nextExpected = rec.Index + 1
		return true, nil
	case rec.Index < v.nextExpected:
		if !v.accepted[rec.Index].Equal(rec) {
			return false, &DuplicateMismatchError{Index: rec.Index, BlockNumber: rec.BlockNumber}
		}
		return false, nil
	default:
		return false, &GapError{Expected: v.nextExpected, Got: rec.Index, BlockNumber: rec.BlockNumber}
	}
}

// NextExpected returns the next deposit index the validator will accept.
func (v *ContiguityValidator) NextExpected() uint64 {
	return v.nextExpected
}

// AcceptedCount returns the number of distinct accepted records.
func (v *ContiguityValidator) AcceptedCount() int {
	return len(v.accepted)
}
