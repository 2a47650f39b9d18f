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

package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

var strIntMapTyp = common.MapType(common.VarcharType(), common.IntegerType())

// mapVal builds one map row; nil keys means a null row.
func mapVal(keys []string, vals []int64) *chunk.Value {
	if keys == nil {
		return &chunk.Value{Typ: strIntMapTyp, IsNull: true}
	}
	val := &chunk.Value{Typ: strIntMapTyp}
	for i, k := range keys {
		val.Children = append(val.Children,
			&chunk.Value{Typ: common.VarcharType(), Str: k},
			&chunk.Value{Typ: common.IntegerType(), I64: vals[i]})
	}
	return val
}

func mapVector(rows []*chunk.Value) *chunk.Vector {
	vec := chunk.NewFlatVector(strIntMapTyp, util.GAlloc, len(rows))
	for i, row := range rows {
		vec.SetValue(i, row)
	}
	return vec
}

func evalMapConcat(t *testing.T, args []*chunk.Vector,
	rows *chunk.SelectivityVector) *chunk.Vector {
	argTypes := make([]common.LType, len(args))
	for i, arg := range args {
		argTypes[i] = arg.Typ()
	}
	call, err := GetFunctionByArgs("map_concat", argTypes)
	require.NoError(t, err)
	ctx := NewEvalCtx(util.GAlloc, call.RetTyp)
	var res *chunk.Vector
	require.NoError(t, call.Exec(rows, args, ctx, &res))
	return res
}

func Test_mapConcatLastWins(t *testing.T) {
	left := mapVector([]*chunk.Value{
		mapVal([]string{"a"}, []int64{1}),
	})
	right := mapVector([]*chunk.Value{
		mapVal([]string{"a"}, []int64{2}),
	})
	rows := chunk.NewSelectivityVector(1)
	res := evalMapConcat(t, []*chunk.Vector{left, right}, rows)
	assert.Equal(t, "{a: 2}", res.GetValue(0).String())
}

func Test_mapConcatMerge(t *testing.T) {
	left := mapVector([]*chunk.Value{
		mapVal([]string{"a", "b"}, []int64{1, 2}),
		mapVal([]string{"x"}, []int64{10}),
	})
	right := mapVector([]*chunk.Value{
		mapVal([]string{"a"}, []int64{3}),
		mapVal([]string{"y", "z"}, []int64{20, 30}),
	})
	rows := chunk.NewSelectivityVector(2)
	res := evalMapConcat(t, []*chunk.Vector{left, right}, rows)
	assert.Equal(t, "{a: 3, b: 2}", res.GetValue(0).String())
	assert.Equal(t, "{x: 10, y: 20, z: 30}", res.GetValue(1).String())

	// surviving entries only: one duplicate was dropped
	assert.Equal(t, 5, chunk.GetListSize(res))
}

func Test_mapConcatThreeWayCollision(t *testing.T) {
	args := []*chunk.Vector{
		mapVector([]*chunk.Value{mapVal([]string{"k"}, []int64{1})}),
		mapVector([]*chunk.Value{mapVal([]string{"k"}, []int64{2})}),
		mapVector([]*chunk.Value{mapVal([]string{"k"}, []int64{3})}),
	}
	rows := chunk.NewSelectivityVector(1)
	res := evalMapConcat(t, args, rows)
	assert.Equal(t, "{k: 3}", res.GetValue(0).String())
}

func Test_mapConcatNullRows(t *testing.T) {
	left := mapVector([]*chunk.Value{
		mapVal(nil, nil),
		mapVal(nil, nil),
		mapVal([]string{"a"}, []int64{1}),
	})
	right := mapVector([]*chunk.Value{
		mapVal([]string{"b"}, []int64{2}),
		mapVal(nil, nil),
		mapVal(nil, nil),
	})
	rows := chunk.NewSelectivityVector(3)
	res := evalMapConcat(t, []*chunk.Vector{left, right}, rows)

	// a null argument contributes nothing; all-null rows are null
	assert.Equal(t, "{b: 2}", res.GetValue(0).String())
	assert.True(t, res.GetValue(1).IsNull)
	assert.Equal(t, "{a: 1}", res.GetValue(2).String())
}

func Test_mapConcatEmptyMaps(t *testing.T) {
	left := mapVector([]*chunk.Value{
		mapVal([]string{}, []int64{}),
	})
	right := mapVector([]*chunk.Value{
		mapVal([]string{}, []int64{}),
	})
	rows := chunk.NewSelectivityVector(1)
	res := evalMapConcat(t, []*chunk.Vector{left, right}, rows)
	val := res.GetValue(0)
	assert.False(t, val.IsNull)
	assert.Equal(t, "{}", val.String())
}

func Test_mapConcatDictInput(t *testing.T) {
	base := mapVector([]*chunk.Value{
		mapVal([]string{"a"}, []int64{1}),
		mapVal([]string{"b"}, []int64{2}),
	})
	sel := chunk.NewSelectVectorFromData([]int{1, 0})
	dict := chunk.WrapInDictionary(nil, sel, 2, base)
	other := mapVector([]*chunk.Value{
		mapVal([]string{"c"}, []int64{3}),
		mapVal([]string{"a"}, []int64{9}),
	})

	rows := chunk.NewSelectivityVector(2)
	res := evalMapConcat(t, []*chunk.Vector{dict, other}, rows)
	assert.Equal(t, "{b: 2, c: 3}", res.GetValue(0).String())
	assert.Equal(t, "{a: 9}", res.GetValue(1).String())
}

func Test_mapConcatInputUnchanged(t *testing.T) {
	left := mapVector([]*chunk.Value{
		mapVal([]string{"a", "b"}, []int64{1, 2}),
	})
	right := mapVector([]*chunk.Value{
		mapVal([]string{"b"}, []int64{7}),
	})
	beforeL := left.GetValue(0).Clone()
	beforeR := right.GetValue(0).Clone()

	rows := chunk.NewSelectivityVector(1)
	_ = evalMapConcat(t, []*chunk.Vector{left, right}, rows)
	assert.True(t, left.GetValue(0).Equal(beforeL))
	assert.True(t, right.GetValue(0).Equal(beforeR))
}

func Test_mapConcatConstInput(t *testing.T) {
	left := chunk.NewVector(strIntMapTyp, util.GAlloc, false, 0)
	left.ReferenceValue(mapVal([]string{"a", "b"}, []int64{1, 2}))
	right := mapVector([]*chunk.Value{
		mapVal([]string{"b", "c"}, []int64{9, 3}),
		mapVal([]string{"a"}, []int64{7}),
	})

	rows := chunk.NewSelectivityVector(2)
	res := evalMapConcat(t, []*chunk.Vector{left, right}, rows)
	assert.Equal(t, "{a: 1, b: 9, c: 3}", res.GetValue(0).String())
	assert.Equal(t, "{a: 7, b: 2}", res.GetValue(1).String())
}

func Test_mapConcatRejectsNonMapVectors(t *testing.T) {
	call, err := GetFunctionByArgs("map_concat",
		[]common.LType{strIntMapTyp, strIntMapTyp})
	require.NoError(t, err)

	arg := chunk.NewInt32FlatVector([]int32{1, 2}, util.GAlloc, 2)
	rows := chunk.NewSelectivityVector(2)
	ctx := NewEvalCtx(util.GAlloc, call.RetTyp)
	var res *chunk.Vector
	err = call.Exec(rows, []*chunk.Vector{arg, arg}, ctx, &res)
	assert.Error(t, err)
}

func Test_mapConcatBindErrors(t *testing.T) {
	_, err := GetFunctionByArgs("map_concat",
		[]common.LType{strIntMapTyp})
	assert.Error(t, err)

	_, err = GetFunctionByArgs("map_concat",
		[]common.LType{strIntMapTyp, common.IntegerType()})
	assert.Error(t, err)

	otherMap := common.MapType(common.VarcharType(), common.BigintType())
	_, err = GetFunctionByArgs("map_concat",
		[]common.LType{strIntMapTyp, otherMap})
	assert.Error(t, err)

	call, err := GetFunctionByArgs("map_concat",
		[]common.LType{strIntMapTyp, strIntMapTyp, strIntMapTyp})
	require.NoError(t, err)
	assert.True(t, call.RetTyp.Equal(strIntMapTyp))
}
