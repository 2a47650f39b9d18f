// Copyright 2024-2025 helfman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

func NewVector(lTyp common.LType, alloc util.Allocator, initData bool, cap int) *Vector {
	vec := &Vector{
		_PhyFormat: PF_FLAT,
		_Typ:       lTyp,
		Mask:       &util.Bitmap{},
		alloc:      alloc,
	}
	if initData {
		vec.Init(alloc, cap)
	}
	return vec
}

func NewFlatVector(lTyp common.LType, alloc util.Allocator, cap int) *Vector {
	return NewVector(lTyp, alloc, true, cap)
}

func NewConstVector(lTyp common.LType, alloc util.Allocator) *Vector {
	vec := NewVector(lTyp, alloc, true, util.DefaultVectorSize)
	vec.SetPhyFormat(PF_CONST)
	return vec
}

func NewInt32FlatVector(v []int32, alloc util.Allocator, sz int) *Vector {
	vec := NewFlatVector(common.IntegerType(), alloc, sz)
	data := GetSliceInPhyFormatFlat[int32](vec)
	copy(data, v)
	return vec
}

func NewVarcharFlatVector(v []string, alloc util.Allocator, sz int) *Vector {
	vec := NewFlatVector(common.VarcharType(), alloc, sz)
	data := GetSliceInPhyFormatFlat[common.String](vec)
	for i := 0; i < len(v); i++ {
		data[i] = common.CopyString(v[i])
	}
	return vec
}

// Copy moves rows [srcOffset, srcCount) of src, re-selected through
// selP, into the flat vector dst starting at dstOffset. Any source
// encoding is handled by walking the chain the same way decoding does.
func Copy(
	srcP *Vector,
	dstP *Vector,
	selP *SelectVector,
	srcCount int,
	srcOffset int,
	dstOffset int,
) {
	util.AssertFunc(srcOffset <= srcCount)
	util.AssertFunc(srcP.Typ().Id == dstP.Typ().Id)
	copyCount := srcCount - srcOffset
	finished := false

	ownedSel := &SelectVector{}
	sel := selP
	src := srcP

	for !finished {
		switch src.PhyFormat() {
		case PF_DICT:
			child := GetChildInPhyFormatDict(src)
			dictSel := GetSelVectorInPhyFormatDict(src)
			newBuff := dictSel.Slice(sel, srcCount)
			ownedSel = NewSelectVectorFromData(newBuff)
			sel = ownedSel
			src = child
		case PF_CONST:
			sel = ZeroSelectVectorInPhyFormatConst(srcCount, ownedSel)
			finished = true
		case PF_FLAT:
			finished = true
		default:
			panic("usp")
		}
	}

	if copyCount == 0 {
		return
	}

	util.AssertFunc(dstP.PhyFormat().IsFlat())

	// copy validity
	dstBitmap := GetMaskInPhyFormatFlat(dstP)
	if src.PhyFormat().IsConst() {
		valid := !IsNullInPhyFormatConst(src)
		for i := 0; i < copyCount; i++ {
			dstBitmap.Set(uint64(dstOffset+i), valid)
		}
	} else {
		srcBitmap := GetMaskInPhyFormatFlat(src)
		if srcBitmap.IsMaskSet() {
			for i := 0; i < copyCount; i++ {
				idx := sel.GetIndex(srcOffset + i)
				if srcBitmap.RowIsValid(uint64(idx)) {
					if !dstBitmap.AllValid() {
						dstBitmap.SetValidUnsafe(uint64(dstOffset + i))
					}
				} else {
					if dstBitmap.AllValid() {
						initSize := max(util.DefaultVectorSize,
							dstOffset+copyCount)
						dstBitmap.Init(initSize)
					}
					dstBitmap.SetInvalidUnsafe(uint64(dstOffset + i))
				}
			}
		}
	}

	util.AssertFunc(sel != nil)

	// copy data
	switch src.Typ().GetInternalType() {
	case common.BOOL:
		TemplatedCopy[bool](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.INT8:
		TemplatedCopy[int8](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.INT16:
		TemplatedCopy[int16](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.INT32:
		TemplatedCopy[int32](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.INT64:
		TemplatedCopy[int64](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.UINT64:
		TemplatedCopy[uint64](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.FLOAT:
		TemplatedCopy[float32](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.DOUBLE:
		TemplatedCopy[float64](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.DATE:
		TemplatedCopy[common.Date](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.DECIMAL:
		TemplatedCopy[common.Decimal](src, sel, dstP, srcOffset, dstOffset, copyCount)
	case common.VARCHAR:
		srcSlice := GetSliceInPhyFormatFlat[common.String](src)
		dstSlice := GetSliceInPhyFormatFlat[common.String](dstP)
		for i := 0; i < copyCount; i++ {
			srcIdx := sel.GetIndex(srcOffset + i)
			dstIdx := dstOffset + i
			if dstBitmap.RowIsValid(uint64(dstIdx)) {
				dstSlice[dstIdx] = common.CloneString(&srcSlice[srcIdx])
			}
		}
	default:
		panic("usp")
	}
}

func TemplatedCopy[T any](
	src *Vector,
	sel *SelectVector,
	dst *Vector,
	srcOffset int,
	dstOffset int,
	copyCount int,
) {
	srcSlice := GetSliceInPhyFormatFlat[T](src)
	dstSlice := GetSliceInPhyFormatFlat[T](dst)
	for i := 0; i < copyCount; i++ {
		srcIdx := sel.GetIndex(srcOffset + i)
		dstSlice[dstOffset+i] = srcSlice[srcIdx]
	}
}
