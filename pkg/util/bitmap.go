package util

import "math/bits"

// Bitmap is a validity mask. A nil bits slice means every row is valid.
// Rows are packed into uint64 entries, low bit first.
type Bitmap struct {
	Alloc Allocator
	Bits  []uint64
}

const BitsPerEntry = 64

func EntryCount(cnt int) int {
	return (cnt + BitsPerEntry - 1) / BitsPerEntry
}

func GetEntryIndex(idx uint64) (uint64, uint64) {
	return idx / BitsPerEntry, idx % BitsPerEntry
}

func EntryIsSet(e uint64, pos uint64) bool {
	return e&(uint64(1)<<pos) != 0
}

func AllValidInEntry(e uint64) bool {
	return e == ^uint64(0)
}

func NoneValidInEntry(e uint64) bool {
	return e == 0
}

func (bm *Bitmap) allocator() Allocator {
	if bm.Alloc != nil {
		return bm.Alloc
	}
	return GAlloc
}

func (bm *Bitmap) Init(count int) {
	cnt := EntryCount(count)
	raw := bm.allocator().Alloc(cnt * 8)
	bm.Bits = ToSlice[uint64](raw, 8)
	for i := range bm.Bits {
		bm.Bits[i] = ^uint64(0)
	}
}

func (bm *Bitmap) ShareWith(other *Bitmap) {
	bm.Bits = other.Bits
}

func (bm *Bitmap) Invalid() bool {
	return len(bm.Bits) == 0
}

// AllValid reports that no row can be invalid, i.e. the mask was never
// materialized. A materialized mask may still have every bit set.
func (bm *Bitmap) AllValid() bool {
	return bm.Invalid()
}

func (bm *Bitmap) IsMaskSet() bool {
	return bm.Bits != nil
}

func (bm *Bitmap) GetEntry(eIdx uint64) uint64 {
	if bm.Invalid() {
		return ^uint64(0)
	}
	return bm.Bits[eIdx]
}

func (bm *Bitmap) RowIsValidUnsafe(idx uint64) bool {
	eIdx, pos := GetEntryIndex(idx)
	return EntryIsSet(bm.GetEntry(eIdx), pos)
}

func (bm *Bitmap) RowIsValid(idx uint64) bool {
	if bm.Invalid() {
		return true
	}
	return bm.RowIsValidUnsafe(idx)
}

func (bm *Bitmap) SetValid(ridx uint64) {
	if bm.Invalid() {
		return
	}
	bm.SetValidUnsafe(ridx)
}

func (bm *Bitmap) SetValidUnsafe(ridx uint64) {
	eIdx, pos := GetEntryIndex(ridx)
	bm.Bits[eIdx] |= uint64(1) << pos
}

func (bm *Bitmap) SetInvalid(ridx uint64) {
	if bm.Invalid() {
		bm.Init(DefaultVectorSize)
	}
	bm.SetInvalidUnsafe(ridx)
}

func (bm *Bitmap) SetInvalidUnsafe(ridx uint64) {
	eIdx, pos := GetEntryIndex(ridx)
	bm.Bits[eIdx] &= ^(uint64(1) << pos)
}

func (bm *Bitmap) Set(ridx uint64, valid bool) {
	if valid {
		bm.SetValid(ridx)
	} else {
		bm.SetInvalid(ridx)
	}
}

func (bm *Bitmap) Reset() {
	bm.Bits = nil
}

func (bm *Bitmap) PrepareSpace(cnt int) {
	if bm.Invalid() {
		bm.Init(cnt)
	}
}

func (bm *Bitmap) Resize(old int, newSize int) {
	if newSize <= old {
		return
	}
	if bm.Bits != nil {
		ocnt := EntryCount(old)
		ncnt := EntryCount(newSize)
		raw := bm.allocator().Alloc(ncnt * 8)
		newData := ToSlice[uint64](raw, 8)
		copy(newData, bm.Bits)
		for i := ocnt; i < ncnt; i++ {
			newData[i] = ^uint64(0)
		}
		bm.Bits = newData
	} else {
		bm.Init(newSize)
	}
}

func (bm *Bitmap) SetAllInvalid(cnt int) {
	bm.PrepareSpace(cnt)
	if cnt == 0 {
		return
	}
	lastEidx := EntryCount(cnt) - 1
	for i := 0; i < lastEidx; i++ {
		bm.Bits[i] = 0
	}
	lastBits := cnt % BitsPerEntry
	if lastBits == 0 {
		bm.Bits[lastEidx] = 0
	} else {
		bm.Bits[lastEidx] = ^uint64(0) << lastBits
	}
}

func (bm *Bitmap) SetAllValid(cnt int) {
	bm.PrepareSpace(cnt)
	if cnt == 0 {
		return
	}
	lastEidx := EntryCount(cnt) - 1
	for i := 0; i < lastEidx; i++ {
		bm.Bits[i] = ^uint64(0)
	}
	lastBits := cnt % BitsPerEntry
	if lastBits == 0 {
		bm.Bits[lastEidx] = ^uint64(0)
	} else {
		bm.Bits[lastEidx] = ^(^uint64(0) << lastBits)
	}
}

// Combine intersects the mask with other over the first count rows.
func (bm *Bitmap) Combine(other *Bitmap, count int) {
	if other.AllValid() {
		return
	}
	if bm.AllValid() {
		bm.ShareWith(other)
		return
	}
	oldData := bm.Bits
	bm.Init(count)
	eCnt := EntryCount(count)
	for i := 0; i < eCnt; i++ {
		bm.Bits[i] = oldData[i] & other.Bits[i]
	}
}

func (bm *Bitmap) CopyFrom(other *Bitmap, count int) {
	if other.AllValid() {
		bm.Bits = nil
	} else {
		eCnt := EntryCount(count)
		raw := bm.allocator().Alloc(eCnt * 8)
		bm.Bits = ToSlice[uint64](raw, 8)
		copy(bm.Bits, other.Bits[:eCnt])
	}
}

// CountValid counts the valid rows among the first count rows.
func (bm *Bitmap) CountValid(count int) int {
	if bm.AllValid() || count == 0 {
		return count
	}
	valid := 0
	eCnt := EntryCount(count)
	for i := 0; i < eCnt-1; i++ {
		valid += bits.OnesCount64(bm.Bits[i])
	}
	lastBits := count % BitsPerEntry
	last := bm.Bits[eCnt-1]
	if lastBits != 0 {
		last &= ^(^uint64(0) << lastBits)
	}
	valid += bits.OnesCount64(last)
	return valid
}
