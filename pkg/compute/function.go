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
	"strings"

	"github.com/tidwall/btree"

	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
)

type FuncType int

const (
	ScalarFuncType FuncType = iota
)

// scalarFunc is the vectorized call contract. rows names the logical
// rows to evaluate. args arrive in any encoding and must not be
// modified. On return *result holds a value for every selected row;
// unselected rows of a pre-existing *result are preserved.
type scalarFunc func(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	call *BoundCall,
	ctx *EvalCtx,
	result **chunk.Vector,
) error

// FunctionV2 is one registered signature of a function.
type FunctionV2 struct {
	_name    string
	_args    []common.LType
	_retType common.LType
	_varArgs bool
	_funcTyp FuncType

	// bind validates argTypes and resolves the concrete return type.
	// nil means exact matching on _args with _retType as-is.
	_bind   func(argTypes []common.LType) (common.LType, error)
	_scalar scalarFunc
}

func (fun *FunctionV2) Name() string {
	return fun._name
}

// matches reports whether argTypes can bind to this signature by
// exact comparison. Signatures with a bind hook validate there.
func (fun *FunctionV2) matches(argTypes []common.LType) bool {
	if fun._varArgs {
		if len(argTypes) < len(fun._args) {
			return false
		}
	} else if len(argTypes) != len(fun._args) {
		return false
	}
	for i, argTyp := range argTypes {
		sigIdx := i
		if sigIdx >= len(fun._args) {
			sigIdx = len(fun._args) - 1
		}
		if !fun._args[sigIdx].Equal(argTyp) {
			return false
		}
	}
	return true
}

// FunctionSet groups all signatures registered under one name.
type FunctionSet struct {
	_name    string
	_funcTyp FuncType
	_funcs   []*FunctionV2
}

func NewFunctionSet(name string, ftyp FuncType) *FunctionSet {
	return &FunctionSet{_name: name, _funcTyp: ftyp}
}

func (set *FunctionSet) Add(fun *FunctionV2) *FunctionSet {
	fun._name = set._name
	fun._funcTyp = set._funcTyp
	set._funcs = append(set._funcs, fun)
	return set
}

// BoundCall is a function signature resolved against concrete
// argument types, ready to evaluate.
type BoundCall struct {
	FunImpl  *FunctionV2
	ArgTypes []common.LType
	RetTyp   common.LType
}

func (call *BoundCall) Exec(
	rows *chunk.SelectivityVector,
	args []*chunk.Vector,
	ctx *EvalCtx,
	result **chunk.Vector,
) error {
	return call.FunImpl._scalar(rows, args, call, ctx, result)
}

var scalarFuncs btree.Map[string, *FunctionSet]

func RegisterScalarFunction(set *FunctionSet) {
	scalarFuncs.Set(set._name, set)
}

// GetFunctionByArgs binds name against argTypes and returns the
// matching signature with its resolved return type.
func GetFunctionByArgs(name string, argTypes []common.LType) (*BoundCall, error) {
	set, ok := scalarFuncs.Get(name)
	if !ok {
		return nil, fmt.Errorf("no function %s", name)
	}
	for _, fun := range set._funcs {
		retTyp := fun._retType
		if fun._bind != nil {
			var err error
			retTyp, err = fun._bind(argTypes)
			if err != nil {
				if len(set._funcs) == 1 {
					return nil, err
				}
				continue
			}
		} else if !fun.matches(argTypes) {
			continue
		}
		return &BoundCall{
			FunImpl:  fun,
			ArgTypes: common.CopyLTypes(argTypes...),
			RetTyp:   retTyp,
		}, nil
	}
	return nil, fmt.Errorf("no function %s matches (%s)",
		name, typeListString(argTypes))
}

func typeListString(types []common.LType) string {
	names := make([]string, 0, len(types))
	for _, typ := range types {
		names = append(names, typ.String())
	}
	return strings.Join(names, ", ")
}

func init() {
	RegisterScalarFunction(registerArrayMin())
	RegisterScalarFunction(registerArrayMax())
	RegisterScalarFunction(registerMapConcat())
}
