package chunk

import (
	"github.com/helfman/velox/pkg/util"
)

// SelectivityVector is the set of active rows of an evaluation call:
// a bitmap over [0, size) with cached begin/end bounds. Bounds are
// recomputed lazily, only after bits changed.
type SelectivityVector struct {
	bits        util.Bitmap
	size        int
	begin       int
	end         int
	boundsDirty bool
}

// NewSelectivityVector selects every row in [0, size).
func NewSelectivityVector(size int) *SelectivityVector {
	rows := &SelectivityVector{
		size: size,
		end:  size,
	}
	return rows
}

// NewSelectivityVectorNone selects no rows.
func NewSelectivityVectorNone(size int) *SelectivityVector {
	rows := &SelectivityVector{
		size: size,
	}
	rows.bits.SetAllInvalid(size)
	return rows
}

func (rows *SelectivityVector) Size() int {
	return rows.size
}

func (rows *SelectivityVector) IsSelected(idx int) bool {
	util.AssertFunc(idx >= 0 && idx < rows.size)
	return rows.bits.RowIsValid(uint64(idx))
}

func (rows *SelectivityVector) SetValid(idx int, selected bool) {
	util.AssertFunc(idx >= 0 && idx < rows.size)
	if !selected && rows.bits.Invalid() {
		rows.bits.SetAllValid(rows.size)
	}
	rows.bits.Set(uint64(idx), selected)
	rows.boundsDirty = true
}

func (rows *SelectivityVector) SetAll(selected bool) {
	if selected {
		rows.bits.Reset()
	} else {
		rows.bits.SetAllInvalid(rows.size)
	}
	rows.boundsDirty = true
}

func (rows *SelectivityVector) UpdateBounds() {
	rows.begin = 0
	rows.end = rows.size
	if !rows.bits.Invalid() {
		for rows.begin < rows.size &&
			!rows.bits.RowIsValidUnsafe(uint64(rows.begin)) {
			rows.begin++
		}
		for rows.end > rows.begin &&
			!rows.bits.RowIsValidUnsafe(uint64(rows.end-1)) {
			rows.end--
		}
	}
	rows.boundsDirty = false
}

func (rows *SelectivityVector) Begin() int {
	if rows.boundsDirty {
		rows.UpdateBounds()
	}
	return rows.begin
}

func (rows *SelectivityVector) End() int {
	if rows.boundsDirty {
		rows.UpdateBounds()
	}
	return rows.end
}

func (rows *SelectivityVector) CountSelected() int {
	if rows.bits.Invalid() {
		return rows.size
	}
	return rows.bits.CountValid(rows.size)
}

func (rows *SelectivityVector) AllSelected() bool {
	return rows.CountSelected() == rows.size
}

// ApplyToSelected runs fn over selected rows in ascending order.
// Whole 64-row entries with no bit set are skipped without per-row
// tests.
func (rows *SelectivityVector) ApplyToSelected(fn func(row int)) {
	begin := rows.Begin()
	end := rows.End()
	if rows.bits.Invalid() {
		for i := begin; i < end; i++ {
			fn(i)
		}
		return
	}
	for i := begin; i < end; {
		eIdx, pos := util.GetEntryIndex(uint64(i))
		entry := rows.bits.GetEntry(eIdx)
		if util.NoneValidInEntry(entry) {
			i = int(eIdx+1) * util.BitsPerEntry
			continue
		}
		if util.AllValidInEntry(entry) {
			next := min(int(eIdx+1)*util.BitsPerEntry, end)
			for ; i < next; i++ {
				fn(i)
			}
			continue
		}
		next := min(int(eIdx+1)*util.BitsPerEntry, end)
		for ; i < next; i++ {
			if util.EntryIsSet(entry, pos) {
				fn(i)
			}
			pos++
		}
	}
}

// Clone copies the selection, sharing nothing.
func (rows *SelectivityVector) Clone() *SelectivityVector {
	ret := NewSelectivityVector(rows.size)
	if !rows.bits.Invalid() {
		ret.bits.CopyFrom(&rows.bits, rows.size)
		ret.boundsDirty = true
	}
	return ret
}
