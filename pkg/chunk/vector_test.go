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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

func Test_flatVector(t *testing.T) {
	vec := NewFlatVector(common.IntegerType(), util.GAlloc, util.DefaultVectorSize)
	data := GetSliceInPhyFormatFlat[int32](vec)
	for i := 0; i < 10; i++ {
		data[i] = int32(i * 10)
	}
	SetNullInPhyFormatFlat(vec, 3, true)

	assert.True(t, vec.PhyFormat().IsFlat())
	assert.Equal(t, int64(50), vec.GetValue(5).I64)
	assert.True(t, vec.GetValue(3).IsNull)
	assert.False(t, vec.GetValue(4).IsNull)
}

func Test_constVector(t *testing.T) {
	vec := NewConstVector(common.BigintType(), util.GAlloc)
	vec.SetValue(0, &Value{Typ: common.BigintType(), I64: 77})
	for i := 0; i < 5; i++ {
		assert.Equal(t, int64(77), vec.GetValue(i).I64)
	}

	nullVec := NewConstVector(common.BigintType(), util.GAlloc)
	SetNullInPhyFormatConst(nullVec, true)
	assert.True(t, IsNullInPhyFormatConst(nullVec))
	assert.True(t, nullVec.GetValue(4).IsNull)
}

func Test_dictVector(t *testing.T) {
	base := NewFlatVector(common.IntegerType(), util.GAlloc, 4)
	data := GetSliceInPhyFormatFlat[int32](base)
	data[0], data[1], data[2], data[3] = 10, 20, 30, 40

	sel := NewSelectVectorFromData([]int{3, 1, 1, 0})
	dict := WrapInDictionary(nil, sel, 4, base)
	assert.True(t, dict.PhyFormat().IsDict())
	assert.Equal(t, int64(40), dict.GetValue(0).I64)
	assert.Equal(t, int64(20), dict.GetValue(1).I64)
	assert.Equal(t, int64(20), dict.GetValue(2).I64)
	assert.Equal(t, int64(10), dict.GetValue(3).I64)
}

func Test_unifiedFormatFlatIdentity(t *testing.T) {
	vec := NewFlatVector(common.IntegerType(), util.GAlloc, 8)
	data := GetSliceInPhyFormatFlat[int32](vec)
	for i := 0; i < 8; i++ {
		data[i] = int32(i)
	}
	var uni UnifiedFormat
	vec.ToUnifiedFormat(8, &uni)
	assert.True(t, uni.IsIdentity())
	assert.False(t, uni.MayHaveNulls())
	slice := GetSliceInPhyFormatUnifiedFormat[int32](&uni)
	for i := 0; i < 8; i++ {
		assert.Equal(t, int32(i), slice[uni.Sel.GetIndex(i)])
	}
}

func Test_unifiedFormatConst(t *testing.T) {
	vec := NewConstVector(common.IntegerType(), util.GAlloc)
	vec.SetValue(0, &Value{Typ: common.IntegerType(), I64: 9})
	var uni UnifiedFormat
	vec.ToUnifiedFormat(6, &uni)
	assert.False(t, uni.IsIdentity())
	slice := GetSliceInPhyFormatUnifiedFormat[int32](&uni)
	for i := 0; i < 6; i++ {
		assert.Equal(t, 0, uni.Sel.GetIndex(i))
		assert.Equal(t, int32(9), slice[uni.Sel.GetIndex(i)])
		assert.True(t, uni.RowIsValid(i))
	}
}

func Test_unifiedFormatDictChain(t *testing.T) {
	base := NewFlatVector(common.IntegerType(), util.GAlloc, 4)
	data := GetSliceInPhyFormatFlat[int32](base)
	data[0], data[1], data[2], data[3] = 100, 200, 300, 400
	SetNullInPhyFormatFlat(base, 2, true)

	inner := WrapInDictionary(nil,
		NewSelectVectorFromData([]int{2, 3, 0, 1}), 4, base)
	outer := WrapInDictionary(nil,
		NewSelectVectorFromData([]int{1, 0, 3, 2}), 4, inner)

	// logical: outer[0]=inner[1]=base[3]=400, outer[1]=inner[0]=base[2]=null,
	// outer[2]=inner[3]=base[1]=200, outer[3]=inner[2]=base[0]=100
	var uni UnifiedFormat
	outer.ToUnifiedFormat(4, &uni)
	assert.False(t, uni.IsIdentity())
	slice := GetSliceInPhyFormatUnifiedFormat[int32](&uni)
	assert.Equal(t, int32(400), slice[uni.Sel.GetIndex(0)])
	assert.False(t, uni.RowIsValid(1))
	assert.Equal(t, int32(200), slice[uni.Sel.GetIndex(2)])
	assert.Equal(t, int32(100), slice[uni.Sel.GetIndex(3)])
}

func Test_unifiedFormatWrapperNulls(t *testing.T) {
	base := NewFlatVector(common.IntegerType(), util.GAlloc, 3)
	data := GetSliceInPhyFormatFlat[int32](base)
	data[0], data[1], data[2] = 1, 2, 3

	mask := &util.Bitmap{}
	mask.Init(4)
	mask.SetInvalidUnsafe(1)
	dict := WrapInDictionary(mask,
		NewSelectVectorFromData([]int{2, 0, 1, 0}), 4, base)

	var uni UnifiedFormat
	dict.ToUnifiedFormat(4, &uni)
	assert.True(t, uni.MayHaveNulls())
	assert.True(t, uni.RowIsValid(0))
	assert.False(t, uni.RowIsValid(1))
	assert.True(t, uni.RowIsValid(2))
	slice := GetSliceInPhyFormatUnifiedFormat[int32](&uni)
	assert.Equal(t, int32(3), slice[uni.Sel.GetIndex(0)])
	assert.Equal(t, int32(2), slice[uni.Sel.GetIndex(2)])
}

func Test_flattenConst(t *testing.T) {
	vec := NewConstVector(common.IntegerType(), util.GAlloc)
	vec.SetValue(0, &Value{Typ: common.IntegerType(), I64: 5})
	vec.Flatten(6)
	assert.True(t, vec.PhyFormat().IsFlat())
	data := GetSliceInPhyFormatFlat[int32](vec)
	for i := 0; i < 6; i++ {
		assert.Equal(t, int32(5), data[i])
	}
}

func Test_listVector(t *testing.T) {
	listTyp := common.ListType(common.IntegerType())
	vec := NewFlatVector(listTyp, util.GAlloc, 4)
	vec.SetValue(0, &Value{Typ: listTyp, Children: []*Value{
		{Typ: common.IntegerType(), I64: 3},
		{Typ: common.IntegerType(), I64: 1},
		{Typ: common.IntegerType(), I64: 2},
	}})
	vec.SetValue(1, &Value{Typ: listTyp})
	vec.SetValue(2, &Value{Typ: listTyp, IsNull: true})
	vec.SetValue(3, &Value{Typ: listTyp, Children: []*Value{
		{Typ: common.IntegerType(), I64: 4},
	}})

	assert.Equal(t, 4, GetListSize(vec))
	val := vec.GetValue(0)
	assert.Equal(t, 3, len(val.Children))
	assert.Equal(t, int64(1), val.Children[1].I64)
	assert.Equal(t, 0, len(vec.GetValue(1).Children))
	assert.False(t, vec.GetValue(1).IsNull)
	assert.True(t, vec.GetValue(2).IsNull)
	assert.Equal(t, "[4]", vec.GetValue(3).String())
}

func Test_mapVector(t *testing.T) {
	mapTyp := common.MapType(common.VarcharType(), common.IntegerType())
	vec := NewFlatVector(mapTyp, util.GAlloc, 2)
	vec.SetValue(0, &Value{Typ: mapTyp, Children: []*Value{
		{Typ: common.VarcharType(), Str: "a"},
		{Typ: common.IntegerType(), I64: 1},
		{Typ: common.VarcharType(), Str: "b"},
		{Typ: common.IntegerType(), I64: 2},
	}})
	vec.SetValue(1, &Value{Typ: mapTyp, IsNull: true})

	val := vec.GetValue(0)
	assert.Equal(t, 4, len(val.Children))
	assert.Equal(t, "a", val.Children[0].Str)
	assert.Equal(t, int64(2), val.Children[3].I64)
	assert.Equal(t, "{a: 1, b: 2}", val.String())
	assert.True(t, vec.GetValue(1).IsNull)
}

func Test_referenceValueConstList(t *testing.T) {
	listTyp := common.ListType(common.IntegerType())
	vec := NewVector(listTyp, util.GAlloc, false, 0)
	vec.ReferenceValue(&Value{Typ: listTyp, Children: []*Value{
		{Typ: common.IntegerType(), I64: 8},
		{Typ: common.IntegerType(), I64: 9},
	}})
	assert.True(t, vec.PhyFormat().IsConst())
	for i := 0; i < 3; i++ {
		assert.Equal(t, "[8, 9]", vec.GetValue(i).String())
	}
}

func Test_copyFlatWithNulls(t *testing.T) {
	src := NewInt32FlatVector(
		[]int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, util.GAlloc, 10)
	SetNullInPhyFormatFlat(src, 3, true)

	dst := NewFlatVector(common.IntegerType(), util.GAlloc, 10)
	Copy(src, dst, IncrSelectVectorInPhyFormatFlat(), 10, 2, 0)

	out := GetSliceInPhyFormatFlat[int32](dst)
	assert.Equal(t, int32(2), out[0])
	assert.True(t, dst.GetValue(1).IsNull)
	assert.Equal(t, int32(9), out[7])
}

func Test_copyDictSource(t *testing.T) {
	base := NewVarcharFlatVector([]string{"aa", "bb", "cc"}, util.GAlloc, 3)
	dict := WrapInDictionary(nil,
		NewSelectVectorFromData([]int{2, 0, 1}), 3, base)
	dst := NewFlatVector(common.VarcharType(), util.GAlloc, 3)
	Copy(dict, dst, IncrSelectVectorInPhyFormatFlat(), 3, 0, 0)

	assert.Equal(t, "cc", dst.GetValue(0).Str)
	assert.Equal(t, "aa", dst.GetValue(1).Str)
	assert.Equal(t, "bb", dst.GetValue(2).Str)
}

func Test_valueClone(t *testing.T) {
	listTyp := common.ListType(common.IntegerType())
	val := &Value{Typ: listTyp, Children: []*Value{
		{Typ: common.IntegerType(), I64: 1},
	}}
	dup := val.Clone()
	dup.Children[0].I64 = 99
	assert.Equal(t, int64(1), val.Children[0].I64)
	assert.True(t, val.Equal(val.Clone()))
}
