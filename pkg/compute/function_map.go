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
	"sort"

	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// map_concat merges two or more maps. When the same key appears in
// several arguments the entry of the last argument wins. Entries are
// first concatenated in argument order into one combined child pair,
// then each row is canonicalized: a stable sort by key keeps insertion
// order among equal keys, so discarding the left neighbor of every
// adjacent duplicate leaves exactly the last occurrence.

func registerMapConcat() *FunctionSet {
	return NewFunctionSet("map_concat", ScalarFuncType).
		Add(&FunctionV2{
			_varArgs: true,
			_bind:    bindMapConcat,
			_scalar:  mapConcatFunc,
		})
}

func bindMapConcat(argTypes []common.LType) (common.LType, error) {
	if len(argTypes) < 2 {
		return common.LType{}, fmt.Errorf(
			"map_concat expects at least two arguments, got %d", len(argTypes))
	}
	for i, argTyp := range argTypes {
		if !argTyp.IsMap() {
			return common.LType{}, fmt.Errorf(
				"map_concat: argument %d is %s, not a map", i, argTyp.String())
		}
		if !argTyp.Equal(argTypes[0]) {
			return common.LType{}, fmt.Errorf(
				"map_concat: argument %d is %s, want %s",
				i, argTyp.String(), argTypes[0].String())
		}
	}
	if !orderableKind(argTypes[0].KeyType()) {
		return common.LType{}, fmt.Errorf(
			"map_concat: key type %s has no ordering",
			argTypes[0].KeyType().String())
	}
	return argTypes[0], nil
}

func mapConcatFunc(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	call *BoundCall,
	ctx *EvalCtx,
	result **chunk.Vector,
) error {
	if len(args) < 2 {
		return fmt.Errorf("map_concat expects at least two arguments, got %d",
			len(args))
	}
	mapTyp := args[0].Typ()
	if !mapTyp.IsMap() {
		return fmt.Errorf("map_concat expects map arguments, got %s",
			mapTyp.String())
	}
	for i, arg := range args {
		if !arg.Typ().Equal(mapTyp) {
			return fmt.Errorf("map_concat: argument %d is %s, want %s",
				i, arg.Typ().String(), mapTyp.String())
		}
	}
	n := rows.Size()

	argUFs := make([]*chunk.UnifiedFormat, len(args))
	argEntries := make([][]chunk.ListEntry, len(args))
	for i, arg := range args {
		argUFs[i] = &chunk.UnifiedFormat{}
		arg.ToUnifiedFormat(n, argUFs[i])
		argEntries[i] = chunk.GetSliceInPhyFormatUnifiedFormat[chunk.ListEntry](argUFs[i])
	}

	// upper bound on combined entries: every input entry survives
	total := 0
	rows.ApplyToSelected(func(row int) {
		for i := range args {
			if argUFs[i].RowIsValid(row) {
				entry := argEntries[i][argUFs[i].Sel.GetIndex(row)]
				total += int(entry.Length)
			}
		}
	})

	keyTyp := mapTyp.KeyType()
	valTyp := mapTyp.ValueType()
	combKeys := chunk.NewFlatVector(keyTyp, ctx.Alloc, max(total, 1))
	combVals := chunk.NewFlatVector(valTyp, ctx.Alloc, max(total, 1))

	type rowSpan struct {
		begin int
		count int
		null  bool
	}
	spans := make([]rowSpan, n)
	writePos := 0
	incr := chunk.IncrSelectVectorInPhyFormatFlat()
	rows.ApplyToSelected(func(row int) {
		begin := writePos
		anyMap := false
		for i := range args {
			if !argUFs[i].RowIsValid(row) {
				continue
			}
			anyMap = true
			entry := argEntries[i][argUFs[i].Sel.GetIndex(row)]
			if entry.Length == 0 {
				continue
			}
			keys := chunk.GetMapKeys(argUFs[i].Vec)
			vals := chunk.GetMapValues(argUFs[i].Vec)
			srcBegin := int(entry.Offset)
			srcEnd := srcBegin + int(entry.Length)
			chunk.Copy(keys, combKeys, incr, srcEnd, srcBegin, writePos)
			chunk.Copy(vals, combVals, incr, srcEnd, srcBegin, writePos)
			writePos += int(entry.Length)
		}
		spans[row] = rowSpan{begin: begin, count: writePos - begin, null: !anyMap}
	})
	util.AssertFunc(writePos <= total)

	combUF := &chunk.UnifiedFormat{}
	combKeys.ToUnifiedFormat(writePos, combUF)
	keyLess := lessForKind(keyTyp, combUF)

	out := chunk.NewFlatVector(call.RetTyp, ctx.Alloc, n)
	outEntries := chunk.GetEntrySliceInPhyFormatList(out)
	outMask := chunk.GetMaskInPhyFormatFlat(out)
	if !rows.AllSelected() {
		for row := 0; row < n; row++ {
			if !rows.IsSelected(row) {
				outEntries[row] = chunk.ListEntry{}
				outMask.SetInvalid(uint64(row))
			}
		}
	}

	// canonicalize every row, collecting the surviving combined rows
	survivors := make([]int, 0, writePos)
	perm := make([]int, 0, 16)
	rows.ApplyToSelected(func(row int) {
		span := spans[row]
		if span.null {
			outEntries[row] = chunk.ListEntry{Offset: uint64(len(survivors))}
			outMask.SetInvalid(uint64(row))
			return
		}
		perm = perm[:0]
		for i := 0; i < span.count; i++ {
			perm = append(perm, span.begin+i)
		}
		sort.SliceStable(perm, func(a, b int) bool {
			return keyLess(perm[a], perm[b])
		})
		offset := len(survivors)
		for i := 0; i < len(perm); i++ {
			if i+1 < len(perm) && !keyLess(perm[i], perm[i+1]) {
				// equal to the next occurrence, which came later
				continue
			}
			survivors = append(survivors, perm[i])
		}
		outEntries[row] = chunk.ListEntry{
			Offset: uint64(offset),
			Length: uint64(len(survivors) - offset),
		}
	})

	// compaction is a dictionary over the combined children
	survSel := chunk.NewSelectVectorFromData(survivors)
	keysOut := chunk.WrapInDictionary(nil, survSel, len(survivors), combKeys)
	valsOut := chunk.WrapInDictionary(nil, survSel, len(survivors), combVals)
	combKeys.Release()
	combVals.Release()

	out.Aux.Release()
	out.Aux = chunk.NewListBuffer(keysOut, valsOut)
	chunk.SetListSize(out, len(survivors))

	MoveOrCopyResult(rows, out, result, ctx)
	return nil
}
