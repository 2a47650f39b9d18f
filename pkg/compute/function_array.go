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
	"fmt"

	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// array_min / array_max reduce each array to its smallest or largest
// element. The result never copies element data: it is the elements
// child wrapped in a dictionary whose mapping points at the winning
// element of every row.

func registerArrayMin() *FunctionSet {
	return NewFunctionSet("array_min", ScalarFuncType).
		Add(&FunctionV2{
			_bind:   bindArrayMinMax("array_min"),
			_scalar: arrayMinFunc,
		})
}

func registerArrayMax() *FunctionSet {
	return NewFunctionSet("array_max", ScalarFuncType).
		Add(&FunctionV2{
			_bind:   bindArrayMinMax("array_max"),
			_scalar: arrayMaxFunc,
		})
}

func bindArrayMinMax(name string) func([]common.LType) (common.LType, error) {
	return func(argTypes []common.LType) (common.LType, error) {
		if len(argTypes) != 1 {
			return common.LType{}, fmt.Errorf(
				"%s expects exactly one argument, got %d", name, len(argTypes))
		}
		if !argTypes[0].IsList() {
			return common.LType{}, fmt.Errorf(
				"%s expects an array argument, got %s", name, argTypes[0].String())
		}
		elemTyp := argTypes[0].ElemType()
		if !orderableKind(elemTyp) {
			return common.LType{}, fmt.Errorf(
				"%s: element type %s has no ordering", name, elemTyp.String())
		}
		return elemTyp, nil
	}
}

func orderableKind(typ common.LType) bool {
	switch typ.GetInternalType() {
	case common.BOOL, common.INT8, common.INT16, common.INT32,
		common.INT64, common.UINT64, common.FLOAT, common.DOUBLE,
		common.VARCHAR, common.DATE, common.DECIMAL:
		return true
	default:
		return false
	}
}

func arrayMinFunc(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	call *BoundCall,
	ctx *EvalCtx,
	result **chunk.Vector,
) error {
	return arrayMinMax(rows, args, call, ctx, result, false)
}

func arrayMaxFunc(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	call *BoundCall,
	ctx *EvalCtx,
	result **chunk.Vector,
) error {
	return arrayMinMax(rows, args, call, ctx, result, true)
}

// elemLess compares two element rows of a decoded child vector by
// their logical row numbers. Strict comparison keeps the earliest
// winner on ties.
type elemLess func(l int, r int) bool

func arrayMinMax(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	call *BoundCall,
	ctx *EvalCtx,
	result **chunk.Vector,
	wantMax bool,
) error {
	util.AssertFunc(len(args) == 1)
	arg := args[0]
	if !arg.Typ().IsList() {
		return fmt.Errorf("%s expects an array argument, got %s",
			call.FunImpl.Name(), arg.Typ().String())
	}
	n := rows.Size()

	listUF := &chunk.UnifiedFormat{}
	arg.ToUnifiedFormat(n, listUF)
	baseList := listUF.Vec
	entries := chunk.GetSliceInPhyFormatUnifiedFormat[chunk.ListEntry](listUF)

	elements := chunk.GetListChild(baseList)
	elemCount := chunk.GetListSize(baseList)
	elemUF := &chunk.UnifiedFormat{}
	elements.ToUnifiedFormat(elemCount, elemUF)

	less := lessForKind(arg.Typ().ElemType(), elemUF)
	if wantMax {
		inner := less
		less = func(l, r int) bool { return inner(r, l) }
	}

	// row results are element indices; a dictionary wrap over the
	// elements child produces the output without touching the data
	indices := chunk.NewSelectVectorInPool(ctx.Alloc, n)
	for row := 0; row < n; row++ {
		indices.SetIndex(row, 0)
	}
	nulls := &util.Bitmap{Alloc: ctx.Alloc}
	markNull := func(row int) {
		if nulls.AllValid() {
			nulls.Init(n)
		}
		nulls.SetInvalid(uint64(row))
	}

	// rows outside the selection are null so a later merge pass can
	// read them safely
	if !rows.AllSelected() {
		for row := 0; row < n; row++ {
			if !rows.IsSelected(row) {
				markNull(row)
			}
		}
	}

	elemsClean := elemUF.IsIdentity() && !elemUF.MayHaveNulls()

	rows.ApplyToSelected(func(row int) {
		if !listUF.RowIsValid(row) {
			markNull(row)
			return
		}
		entry := entries[listUF.Sel.GetIndex(row)]
		if entry.Length == 0 {
			markNull(row)
			return
		}
		begin := int(entry.Offset)
		end := begin + int(entry.Length)
		util.AssertFunc(end <= elemCount)

		best := begin
		if elemsClean {
			for i := begin + 1; i < end; i++ {
				if less(i, best) {
					best = i
				}
			}
		} else {
			if !elemUF.RowIsValid(begin) {
				markNull(row)
				return
			}
			for i := begin + 1; i < end; i++ {
				// one null element nullifies the whole reduction
				if !elemUF.RowIsValid(i) {
					markNull(row)
					return
				}
				if less(i, best) {
					best = i
				}
			}
		}
		indices.SetIndex(row, best)
	})

	out := chunk.WrapInDictionary(nulls, indices, n, elements)
	MoveOrCopyResult(rows, out, result, ctx)
	return nil
}

func lessForKind(elemTyp common.LType, uni *chunk.UnifiedFormat) elemLess {
	switch elemTyp.GetInternalType() {
	case common.BOOL:
		data := chunk.GetSliceInPhyFormatUnifiedFormat[bool](uni)
		sel := uni.Sel
		return func(l, r int) bool {
			return !data[sel.GetIndex(l)] && data[sel.GetIndex(r)]
		}
	case common.INT8:
		return templatedLess[int8](uni)
	case common.INT16:
		return templatedLess[int16](uni)
	case common.INT32:
		return templatedLess[int32](uni)
	case common.INT64:
		return templatedLess[int64](uni)
	case common.UINT64:
		return templatedLess[uint64](uni)
	case common.FLOAT:
		return floatLess[float32](uni)
	case common.DOUBLE:
		return floatLess[float64](uni)
	case common.VARCHAR:
		data := chunk.GetSliceInPhyFormatUnifiedFormat[common.String](uni)
		sel := uni.Sel
		return func(l, r int) bool {
			return data[sel.GetIndex(l)].Less(&data[sel.GetIndex(r)])
		}
	case common.DATE:
		data := chunk.GetSliceInPhyFormatUnifiedFormat[common.Date](uni)
		sel := uni.Sel
		return func(l, r int) bool {
			return data[sel.GetIndex(l)].Less(&data[sel.GetIndex(r)])
		}
	case common.DECIMAL:
		data := chunk.GetSliceInPhyFormatUnifiedFormat[common.Decimal](uni)
		sel := uni.Sel
		return func(l, r int) bool {
			return data[sel.GetIndex(l)].Less(&data[sel.GetIndex(r)])
		}
	default:
		panic("usp")
	}
}

func templatedLess[T int8 | int16 | int32 | int64 | uint64 | float32 | float64](
	uni *chunk.UnifiedFormat,
) elemLess {
	data := chunk.GetSliceInPhyFormatUnifiedFormat[T](uni)
	sel := uni.Sel
	return func(l, r int) bool {
		return data[sel.GetIndex(l)] < data[sel.GetIndex(r)]
	}
}

// floatLess orders NaN after every finite value, so array_max of an
// array containing NaN is NaN and array_min ignores it.
func floatLess[T float32 | float64](uni *chunk.UnifiedFormat) elemLess {
	data := chunk.GetSliceInPhyFormatUnifiedFormat[T](uni)
	sel := uni.Sel
	return func(l, r int) bool {
		return util.GreaterFloat(data[sel.GetIndex(r)], data[sel.GetIndex(l)])
	}
}
