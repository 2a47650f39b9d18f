package chunk

import (
	"github.com/helfman/velox/pkg/util"
)

// UnifiedFormat is the decoded view of a vector: data and mask of the
// base vector plus one SelectVector composed out of the whole
// dictionary chain. Decoding is O(vector size) once per call;
// lookups afterwards are O(1) per row no matter the wrapping depth.
//
// The mask is normally addressed by translated index (Sel applied).
// When a dictionary wrapper carried its own nulls the decode merges
// everything into a mask addressed by logical row instead, flagged by
// MaskByRow; use RowIsValid and don't touch Mask directly.
type UnifiedFormat struct {
	Vec       *Vector // decoded base vector
	Sel       *SelectVector
	Data      []byte
	Mask      *util.Bitmap
	MaskByRow bool
	InterSel  SelectVector
	ownedMask util.Bitmap
	PTypSize  int
}

// IsIdentity is true iff rows address base data directly: no
// dictionary and no constant layer. Functions use it to pick the
// unwrapped loop.
func (uni *UnifiedFormat) IsIdentity() bool {
	return uni.Sel.Invalid()
}

func (uni *UnifiedFormat) MayHaveNulls() bool {
	return uni.Mask.IsMaskSet()
}

func (uni *UnifiedFormat) RowIsValid(row int) bool {
	if uni.MaskByRow {
		return uni.Mask.RowIsValid(uint64(row))
	}
	return uni.Mask.RowIsValid(uint64(uni.Sel.GetIndex(row)))
}

func GetSliceInPhyFormatUnifiedFormat[T any](uni *UnifiedFormat) []T {
	return util.ToSlice[T](uni.Data, uni.PTypSize)
}
