package chunk

import (
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// Format conversion methods for Vector.

func (vec *Vector) Flatten(cnt int) {
	switch vec.PhyFormat() {
	case PF_FLAT:
	case PF_CONST:
		null := IsNullInPhyFormatConst(vec)
		oldData := vec.Data
		vec.Buf = NewStandardBuffer(vec.Allocator(), vec._Typ,
			max(util.DefaultVectorSize, cnt))
		vec.Data = vec.Buf.Data
		vec._PhyFormat = PF_FLAT
		if null {
			vec.Mask.SetAllInvalid(cnt)
			return
		}
		pTyp := vec.Typ().GetInternalType()
		switch pTyp {
		case common.BOOL:
			FlattenConstVector[bool](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT8:
			FlattenConstVector[int8](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT16:
			FlattenConstVector[int16](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT32:
			FlattenConstVector[int32](vec.Data, oldData, pTyp.Size(), cnt)
		case common.INT64:
			FlattenConstVector[int64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.UINT64:
			FlattenConstVector[uint64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.FLOAT:
			FlattenConstVector[float32](vec.Data, oldData, pTyp.Size(), cnt)
		case common.DOUBLE:
			FlattenConstVector[float64](vec.Data, oldData, pTyp.Size(), cnt)
		case common.VARCHAR:
			FlattenConstVector[common.String](vec.Data, oldData, pTyp.Size(), cnt)
		case common.DATE:
			FlattenConstVector[common.Date](vec.Data, oldData, pTyp.Size(), cnt)
		case common.DECIMAL:
			FlattenConstVector[common.Decimal](vec.Data, oldData, pTyp.Size(), cnt)
		default:
			panic("usp")
		}
	case PF_DICT:
		panic("usp")
	}
}

// ToUnifiedFormat decodes the vector: an arbitrary dictionary chain is
// flattened into one composed SelectVector, at most one constant layer
// collapses into a zero mapping, and nulls carried by dictionary
// wrappers are merged into a per-row mask. Cost is O(count) once;
// every later access is O(1).
func (vec *Vector) ToUnifiedFormat(count int, output *UnifiedFormat) {
	output.PTypSize = vec._Typ.GetInternalType().Size()
	output.MaskByRow = false

	var sel *SelectVector
	wrapperNulls := false
	cur := vec
	for cur.PhyFormat().IsDict() {
		dictSel := GetSelVectorInPhyFormatDict(cur)
		// wrapper nulls are addressed by the rows of this layer;
		// translate them to final rows through the mapping built so far
		if cur.Mask.IsMaskSet() {
			if !wrapperNulls {
				output.ownedMask.Alloc = vec.Allocator()
				output.ownedMask.Bits = nil
				output.ownedMask.SetAllValid(count)
				wrapperNulls = true
			}
			for i := 0; i < count; i++ {
				layerRow := i
				if sel != nil {
					layerRow = sel.GetIndex(i)
				}
				if !cur.Mask.RowIsValid(uint64(layerRow)) {
					output.ownedMask.SetInvalidUnsafe(uint64(i))
				}
			}
		}
		if sel == nil {
			sel = &SelectVector{}
			sel.ShareWith(dictSel)
		} else {
			composed := dictSel.Slice(sel, count)
			sel = NewSelectVectorFromData(composed)
		}
		cur = GetChildInPhyFormatDict(cur)
	}

	switch cur.PhyFormat() {
	case PF_CONST:
		output.Vec = cur
		output.Sel = ZeroSelectVectorInPhyFormatConst(count, &output.InterSel)
		output.Data = GetDataInPhyFormatConst(cur)
		output.Mask = GetMaskInPhyFormatConst(cur)
	case PF_FLAT:
		output.Vec = cur
		if sel == nil {
			sel = IncrSelectVectorInPhyFormatFlat()
		}
		output.Sel = sel
		output.Data = GetDataInPhyFormatFlat(cur)
		output.Mask = GetMaskInPhyFormatFlat(cur)
	default:
		panic("usp")
	}

	if wrapperNulls {
		// fold base nulls into the per-row mask so one lookup answers
		for i := 0; i < count; i++ {
			if !output.Mask.RowIsValid(uint64(output.Sel.GetIndex(i))) {
				output.ownedMask.SetInvalidUnsafe(uint64(i))
			}
		}
		output.Mask = &output.ownedMask
		output.MaskByRow = true
	}
}

// SliceOnSelf re-selects the vector through sel without copying data:
// constants stay constants, dictionaries compose their mapping, flat
// vectors become dictionaries over themselves.
func (vec *Vector) SliceOnSelf(sel *SelectVector, count int) {
	if vec.PhyFormat().IsConst() {
	} else if vec.PhyFormat().IsDict() {
		curSel := GetSelVectorInPhyFormatDict(vec)
		buf := curSel.Slice(sel, count)
		vec.Buf = NewDictBuffer(buf)
	} else {
		child := &Vector{
			_Typ: vec.Typ(),
		}
		child.Reference(vec)
		childRef := NewChildBuffer(child)
		dictBuf := NewDictBuffer2(sel)
		vec._PhyFormat = PF_DICT
		vec.Buf = dictBuf
		vec.Aux = childRef
		vec.Mask = &util.Bitmap{}
	}
}

func (vec *Vector) Slice(other *Vector, sel *SelectVector, count int) {
	vec.Reference(other)
	vec.SliceOnSelf(sel, count)
}

func FlattenConstVector[T any](data []byte, srcData []byte, pSize int, cnt int) {
	src := util.ToSlice[T](srcData, pSize)
	dst := util.ToSlice[T](data, pSize)
	for i := 0; i < cnt; i++ {
		dst[i] = src[0]
	}
}
