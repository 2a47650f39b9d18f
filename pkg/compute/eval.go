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
	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// EvalCtx carries the per-evaluation resources a vectorized function
// draws on: the pool its output must be allocated from and the result
// type the binder resolved for the call.
type EvalCtx struct {
	Alloc util.Allocator
	Typ   common.LType
}

func NewEvalCtx(alloc util.Allocator, typ common.LType) *EvalCtx {
	if alloc == nil {
		alloc = util.GAlloc
	}
	return &EvalCtx{Alloc: alloc, Typ: typ}
}

// MoveOrCopyResult installs vec as the call's result. When no result
// vector exists yet the computed vector is adopted wholesale. When the
// caller already holds a partial result from an earlier pass over a
// different row set, only the rows of this pass are copied in and the
// previously computed rows are kept.
func MoveOrCopyResult(
	rows *chunk.SelectivityVector,
	vec *chunk.Vector,
	result **chunk.Vector,
	ctx *EvalCtx,
) {
	if *result == nil {
		*result = vec
		return
	}
	merged := chunk.NewFlatVector((*result).Typ(), ctx.Alloc, rows.Size())
	for row := 0; row < rows.Size(); row++ {
		if rows.IsSelected(row) {
			merged.SetValue(row, vec.GetValue(row))
		} else {
			merged.SetValue(row, (*result).GetValue(row))
		}
	}
	vec.Release()
	(*result).Release()
	*result = merged
}
