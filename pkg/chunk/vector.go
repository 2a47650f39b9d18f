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
	"go.uber.org/zap"

	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// ListEntry addresses one composite row's elements inside the child
// vector: [Offset, Offset+Length).
type ListEntry struct {
	Offset uint64
	Length uint64
}

// Vector is a typed batch of values under one physical encoding.
// The row count is not stored here; it travels with the batch
// (Chunk.Count or SelectivityVector.Size) the way the engine passes
// counts everywhere.
type Vector struct {
	_PhyFormat PhyFormat
	_Typ       common.LType
	Data       []byte
	Mask       *util.Bitmap
	Buf        *VecBuffer
	Aux        *VecBuffer
	alloc      util.Allocator
}

func (vec *Vector) Init(alloc util.Allocator, cap int) {
	vec.alloc = alloc
	vec.Aux = nil
	vec.Mask.Alloc = alloc
	vec.Mask.Reset()
	sz := vec.Typ().GetInternalType().Size()
	if sz > 0 {
		vec.Buf = NewStandardBuffer(alloc, vec.Typ(), cap)
		vec.Data = vec.Buf.Data
	}
	if cap > util.DefaultVectorSize {
		vec.Mask.Resize(util.DefaultVectorSize, cap)
	}
	switch vec.Typ().Id {
	case common.LTID_LIST:
		child := NewFlatVector(vec.Typ().ElemType(), alloc, cap)
		vec.Aux = NewListBuffer(child)
	case common.LTID_MAP:
		keys := NewFlatVector(vec.Typ().KeyType(), alloc, cap)
		values := NewFlatVector(vec.Typ().ValueType(), alloc, cap)
		vec.Aux = NewListBuffer(keys, values)
	}
}

func (vec *Vector) Typ() common.LType {
	return vec._Typ
}

func (vec *Vector) PhyFormat() PhyFormat {
	return vec._PhyFormat
}

func (vec *Vector) SetPhyFormat(pf PhyFormat) {
	vec._PhyFormat = pf
	if vec.Typ().GetInternalType().IsConstant() &&
		(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat()) {
		vec.Aux = nil
	}
}

func (vec *Vector) Allocator() util.Allocator {
	if vec.alloc == nil {
		return util.GAlloc
	}
	return vec.alloc
}

// Reference makes the vector a second reader of other's buffers.
// Nothing is copied.
func (vec *Vector) Reference(other *Vector) {
	util.AssertFunc(vec.Typ().Equal(other.Typ()))
	vec.Reinterpret(other)
}

func (vec *Vector) Reinterpret(other *Vector) {
	other.Buf.Retain()
	other.Aux.Retain()
	vec._PhyFormat = other._PhyFormat
	vec.Buf = other.Buf
	vec.Aux = other.Aux
	vec.Data = other.Data
	vec.Mask = other.Mask
	vec.alloc = other.alloc
}

func (vec *Vector) ReferenceValue(val *Value) {
	util.AssertFunc(vec.Typ().Id == val.Typ.Id)
	vec.SetPhyFormat(PF_CONST)
	vec.Buf = NewConstBuffer(vec.Allocator(), val.Typ)
	vec.Aux = nil
	switch vec.Typ().Id {
	case common.LTID_LIST:
		child := NewFlatVector(vec.Typ().ElemType(), vec.Allocator(),
			len(val.Children))
		vec.Aux = NewListBuffer(child)
	case common.LTID_MAP:
		keys := NewFlatVector(vec.Typ().KeyType(), vec.Allocator(),
			len(val.Children)/2)
		values := NewFlatVector(vec.Typ().ValueType(), vec.Allocator(),
			len(val.Children)/2)
		vec.Aux = NewListBuffer(keys, values)
	}
	vec.Data = vec.Buf.Data
	vec.SetValue(0, val)
}

// Retain/Release forward to the vector's buffers; a published vector's
// buffers are read-shared and freed by the last holder.
func (vec *Vector) Retain() {
	vec.Buf.Retain()
	vec.Aux.Retain()
}

func (vec *Vector) Release() {
	vec.Buf.Release()
	vec.Aux.Release()
}

func (vec *Vector) Reset() {
	vec._PhyFormat = PF_FLAT
	vec.Mask.Reset()
	if vec.Aux != nil && vec.Aux.BufTyp == VBT_LIST {
		vec.Aux.Count = 0
	}
}

func (vec *Vector) GetValue(idx int) *Value {
	switch vec.PhyFormat() {
	case PF_CONST:
		idx = 0
	case PF_FLAT:
	case PF_DICT:
		sel := GetSelVectorInPhyFormatDict(vec)
		child := GetChildInPhyFormatDict(vec)
		if !vec.Mask.RowIsValid(uint64(idx)) {
			return &Value{
				Typ:    vec.Typ(),
				IsNull: true,
			}
		}
		return child.GetValue(sel.GetIndex(idx))
	default:
		panic("usp")
	}
	if !vec.Mask.RowIsValid(uint64(idx)) {
		return &Value{
			Typ:    vec.Typ(),
			IsNull: true,
		}
	}

	switch vec.Typ().Id {
	case common.LTID_BOOLEAN:
		data := GetSliceInPhyFormatFlat[bool](vec)
		return &Value{Typ: vec.Typ(), Bool: data[idx]}
	case common.LTID_TINYINT:
		data := GetSliceInPhyFormatFlat[int8](vec)
		return &Value{Typ: vec.Typ(), I64: int64(data[idx])}
	case common.LTID_SMALLINT:
		data := GetSliceInPhyFormatFlat[int16](vec)
		return &Value{Typ: vec.Typ(), I64: int64(data[idx])}
	case common.LTID_INTEGER:
		data := GetSliceInPhyFormatFlat[int32](vec)
		return &Value{Typ: vec.Typ(), I64: int64(data[idx])}
	case common.LTID_BIGINT:
		data := GetSliceInPhyFormatFlat[int64](vec)
		return &Value{Typ: vec.Typ(), I64: data[idx]}
	case common.LTID_UBIGINT:
		data := GetSliceInPhyFormatFlat[uint64](vec)
		return &Value{Typ: vec.Typ(), U64: data[idx]}
	case common.LTID_FLOAT:
		data := GetSliceInPhyFormatFlat[float32](vec)
		return &Value{Typ: vec.Typ(), F64: float64(data[idx])}
	case common.LTID_DOUBLE:
		data := GetSliceInPhyFormatFlat[float64](vec)
		return &Value{Typ: vec.Typ(), F64: data[idx]}
	case common.LTID_VARCHAR:
		data := GetSliceInPhyFormatFlat[common.String](vec)
		return &Value{Typ: vec.Typ(), Str: data[idx].String()}
	case common.LTID_DATE:
		data := GetSliceInPhyFormatFlat[common.Date](vec)
		return &Value{
			Typ:   vec.Typ(),
			I64:   int64(data[idx].Year),
			I64_1: int64(data[idx].Month),
			I64_2: int64(data[idx].Day),
		}
	case common.LTID_DECIMAL:
		data := GetSliceInPhyFormatFlat[common.Decimal](vec)
		return &Value{Typ: vec.Typ(), Str: data[idx].String()}
	case common.LTID_LIST:
		entries := GetEntrySliceInPhyFormatList(vec)
		child := GetListChild(vec)
		entry := entries[idx]
		val := &Value{Typ: vec.Typ()}
		for j := uint64(0); j < entry.Length; j++ {
			val.Children = append(val.Children,
				child.GetValue(int(entry.Offset+j)))
		}
		return val
	case common.LTID_MAP:
		entries := GetEntrySliceInPhyFormatList(vec)
		keys := GetMapKeys(vec)
		values := GetMapValues(vec)
		entry := entries[idx]
		val := &Value{Typ: vec.Typ()}
		for j := uint64(0); j < entry.Length; j++ {
			val.Children = append(val.Children,
				keys.GetValue(int(entry.Offset+j)),
				values.GetValue(int(entry.Offset+j)))
		}
		return val
	default:
		panic("usp")
	}
}

func (vec *Vector) SetValue(idx int, val *Value) {
	if vec.PhyFormat().IsDict() {
		sel := GetSelVectorInPhyFormatDict(vec)
		child := GetChildInPhyFormatDict(vec)
		child.SetValue(sel.GetIndex(idx), val)
		return
	}
	util.AssertFunc(val.Typ.Equal(vec.Typ()))
	vec.Mask.Set(uint64(idx), !val.IsNull)
	if val.IsNull && !vec.Typ().GetInternalType().IsList() {
		return
	}
	pTyp := vec.Typ().GetInternalType()
	switch pTyp {
	case common.BOOL:
		slice := util.ToSlice[bool](vec.Data, pTyp.Size())
		slice[idx] = val.Bool
	case common.INT8:
		slice := util.ToSlice[int8](vec.Data, pTyp.Size())
		slice[idx] = int8(val.I64)
	case common.INT16:
		slice := util.ToSlice[int16](vec.Data, pTyp.Size())
		slice[idx] = int16(val.I64)
	case common.INT32:
		slice := util.ToSlice[int32](vec.Data, pTyp.Size())
		slice[idx] = int32(val.I64)
	case common.INT64:
		slice := util.ToSlice[int64](vec.Data, pTyp.Size())
		slice[idx] = val.I64
	case common.UINT64:
		slice := util.ToSlice[uint64](vec.Data, pTyp.Size())
		slice[idx] = val.U64
	case common.FLOAT:
		slice := util.ToSlice[float32](vec.Data, pTyp.Size())
		slice[idx] = float32(val.F64)
	case common.DOUBLE:
		slice := util.ToSlice[float64](vec.Data, pTyp.Size())
		slice[idx] = val.F64
	case common.VARCHAR:
		slice := util.ToSlice[common.String](vec.Data, pTyp.Size())
		slice[idx] = common.CopyString(val.Str)
	case common.DATE:
		slice := util.ToSlice[common.Date](vec.Data, pTyp.Size())
		slice[idx] = common.Date{
			Year:  int32(val.I64),
			Month: int32(val.I64_1),
			Day:   int32(val.I64_2),
		}
	case common.DECIMAL:
		slice := util.ToSlice[common.Decimal](vec.Data, pTyp.Size())
		d, err := common.ParseDecimal(val.Str, vec.Typ().Scale)
		if err != nil {
			panic(err)
		}
		slice[idx] = d
	case common.LIST:
		vec.setCompositeValue(idx, val)
	default:
		panic("usp")
	}
}

// setCompositeValue appends the row's elements to the child vectors
// and records the entry. Rows must be written by the vector's own
// constructing function only, before it is published.
func (vec *Vector) setCompositeValue(idx int, val *Value) {
	entries := GetEntrySliceInPhyFormatList(vec)
	if val.IsNull {
		entries[idx] = ListEntry{}
		return
	}
	isMap := vec.Typ().IsMap()
	var rowLen int
	if isMap {
		util.AssertFunc(len(val.Children)%2 == 0)
		rowLen = len(val.Children) / 2
	} else {
		rowLen = len(val.Children)
	}
	offset := GetListSize(vec)
	ReserveListChild(vec, offset+rowLen)
	if isMap {
		keys := GetMapKeys(vec)
		values := GetMapValues(vec)
		for j := 0; j < rowLen; j++ {
			keys.SetValue(offset+j, val.Children[2*j])
			values.SetValue(offset+j, val.Children[2*j+1])
		}
	} else {
		child := GetListChild(vec)
		for j := 0; j < rowLen; j++ {
			child.SetValue(offset+j, val.Children[j])
		}
	}
	entries[idx] = ListEntry{
		Offset: uint64(offset),
		Length: uint64(rowLen),
	}
	SetListSize(vec, offset+rowLen)
}

func (vec *Vector) Print2(prefix string, rowCount int) {
	fields := make([]zap.Field, 0)
	for j := 0; j < rowCount; j++ {
		val := vec.GetValue(j)
		fields = append(fields, zap.String("", val.String()))
	}
	util.Info(prefix, fields...)
}

// constant vector

func GetDataInPhyFormatConst(vec *Vector) []byte {
	util.AssertFunc(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat())
	return vec.Data
}

func GetSliceInPhyFormatConst[T any](vec *Vector) []T {
	util.AssertFunc(vec.PhyFormat().IsConst() || vec.PhyFormat().IsFlat())
	pSize := vec.Typ().GetInternalType().Size()
	return util.ToSlice[T](vec.Data, pSize)
}

func IsNullInPhyFormatConst(vec *Vector) bool {
	util.AssertFunc(vec.PhyFormat().IsConst())
	return !vec.Mask.RowIsValid(0)
}

func SetNullInPhyFormatConst(vec *Vector, null bool) {
	util.AssertFunc(vec.PhyFormat().IsConst())
	vec.Mask.Set(0, !null)
}

func GetMaskInPhyFormatConst(vec *Vector) *util.Bitmap {
	util.AssertFunc(vec.PhyFormat().IsConst())
	return vec.Mask
}

func ZeroSelectVectorInPhyFormatConst(cnt int, sel *SelectVector) *SelectVector {
	sel.Init(cnt)
	return sel
}

// flat vector

func GetDataInPhyFormatFlat(vec *Vector) []byte {
	return GetDataInPhyFormatConst(vec)
}

func GetSliceInPhyFormatFlat[T any](vec *Vector) []T {
	return GetSliceInPhyFormatConst[T](vec)
}

func GetMaskInPhyFormatFlat(vec *Vector) *util.Bitmap {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	return vec.Mask
}

func SetNullInPhyFormatFlat(vec *Vector, idx uint64, null bool) {
	util.AssertFunc(vec.PhyFormat().IsFlat())
	vec.Mask.Set(idx, !null)
}

func IncrSelectVectorInPhyFormatFlat() *SelectVector {
	return &SelectVector{}
}

// dictionary vector

func GetSelVectorInPhyFormatDict(vec *Vector) *SelectVector {
	util.AssertFunc(vec.PhyFormat().IsDict())
	return vec.Buf.GetSelVector()
}

func GetChildInPhyFormatDict(vec *Vector) *Vector {
	util.AssertFunc(vec.PhyFormat().IsDict())
	return vec.Aux.Child
}

// WrapInDictionary builds a dictionary of count rows over child
// without copying child data: row i reads child row sel[i]. mask, when
// not nil, carries wrapper level nulls (rows whose index is
// meaningless, e.g. reductions of empty arrays).
func WrapInDictionary(mask *util.Bitmap, sel *SelectVector, count int, child *Vector) *Vector {
	child.Retain()
	vec := &Vector{
		_PhyFormat: PF_DICT,
		_Typ:       child.Typ(),
		Mask:       &util.Bitmap{},
		alloc:      child.alloc,
	}
	vec.Buf = NewDictBuffer2(sel)
	vec.Aux = NewChildBuffer(child)
	if mask != nil {
		vec.Mask.ShareWith(mask)
	}
	util.AssertFunc(sel.Invalid() || len(sel.SelVec) >= count)
	return vec
}

// composite (list/map) vector

func GetEntrySliceInPhyFormatList(vec *Vector) []ListEntry {
	util.AssertFunc(vec.Typ().GetInternalType().IsList())
	util.AssertFunc(vec.PhyFormat().IsFlat() || vec.PhyFormat().IsConst())
	return util.ToSlice[ListEntry](vec.Data, common.ListEntrySize)
}

func GetListChild(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().IsList())
	return vec.Aux.GetChild(0)
}

func GetMapKeys(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().IsMap())
	return vec.Aux.GetChild(0)
}

func GetMapValues(vec *Vector) *Vector {
	util.AssertFunc(vec.Typ().IsMap())
	return vec.Aux.GetChild(1)
}

// GetListSize is the number of child rows in use across all entries.
func GetListSize(vec *Vector) int {
	util.AssertFunc(vec.Aux != nil && vec.Aux.BufTyp == VBT_LIST)
	return vec.Aux.Count
}

func SetListSize(vec *Vector, sz int) {
	util.AssertFunc(vec.Aux != nil && vec.Aux.BufTyp == VBT_LIST)
	vec.Aux.Count = sz
}

// ReserveListChild grows the child vectors to hold at least required
// rows. Growth reallocates; the old child buffer stays alive for any
// vector still referencing it.
func ReserveListChild(vec *Vector, required int) {
	util.AssertFunc(vec.Aux != nil && vec.Aux.BufTyp == VBT_LIST)
	for i, child := range vec.Aux.Children {
		cap := len(child.Data) / child.Typ().GetInternalType().Size()
		if required <= cap {
			continue
		}
		newCap := int(util.NextPowerOfTwo(uint64(required)))
		grown := NewFlatVector(child.Typ(), child.Allocator(), newCap)
		copy(grown.Data, child.Data)
		grown.Mask.CopyFrom(child.Mask, cap)
		vec.Aux.Children[i] = grown
	}
}

func HasNull(input *Vector, count int) bool {
	if count == 0 {
		return false
	}
	if input.PhyFormat() == PF_CONST {
		return IsNullInPhyFormatConst(input)
	}
	var data UnifiedFormat
	input.ToUnifiedFormat(count, &data)
	if !data.MayHaveNulls() {
		return false
	}
	for i := 0; i < count; i++ {
		if !data.RowIsValid(i) {
			return true
		}
	}
	return false
}
