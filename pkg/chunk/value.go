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
	"fmt"
	"strings"

	"github.com/huandu/go-clone"

	"github.com/helfman/velox/pkg/common"
)

// Value is the scalar escape hatch out of the columnar layout. It is
// used by row-wise copies and by tests; hot paths never touch it.
type Value struct {
	Typ    common.LType
	IsNull bool
	Bool   bool
	I64    int64
	I64_1  int64
	I64_2  int64
	U64    uint64
	F64    float64
	Str    string
	// list elements, or alternating key,value for maps
	Children []*Value
}

func (val *Value) Clone() *Value {
	return clone.Clone(val).(*Value)
}

func (val Value) String() string {
	if val.IsNull {
		return "NULL"
	}
	switch val.Typ.Id {
	case common.LTID_BOOLEAN:
		return fmt.Sprintf("%v", val.Bool)
	case common.LTID_TINYINT, common.LTID_SMALLINT,
		common.LTID_INTEGER, common.LTID_BIGINT:
		return fmt.Sprintf("%d", val.I64)
	case common.LTID_UBIGINT:
		return fmt.Sprintf("%d", val.U64)
	case common.LTID_FLOAT, common.LTID_DOUBLE:
		return fmt.Sprintf("%v", val.F64)
	case common.LTID_VARCHAR, common.LTID_DECIMAL:
		return val.Str
	case common.LTID_DATE:
		return fmt.Sprintf("%04d-%02d-%02d", val.I64, val.I64_1, val.I64_2)
	case common.LTID_LIST:
		elems := make([]string, 0, len(val.Children))
		for _, child := range val.Children {
			elems = append(elems, child.String())
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case common.LTID_MAP:
		elems := make([]string, 0, len(val.Children)/2)
		for i := 0; i+1 < len(val.Children); i += 2 {
			elems = append(elems,
				val.Children[i].String()+": "+val.Children[i+1].String())
		}
		return "{" + strings.Join(elems, ", ") + "}"
	default:
		panic("usp")
	}
}

func (val *Value) Equal(o *Value) bool {
	if val == nil || o == nil {
		return val == o
	}
	if val.IsNull || o.IsNull {
		return val.IsNull == o.IsNull
	}
	if val.Typ.Id != o.Typ.Id {
		return false
	}
	switch val.Typ.Id {
	case common.LTID_BOOLEAN:
		return val.Bool == o.Bool
	case common.LTID_TINYINT, common.LTID_SMALLINT,
		common.LTID_INTEGER, common.LTID_BIGINT:
		return val.I64 == o.I64
	case common.LTID_UBIGINT:
		return val.U64 == o.U64
	case common.LTID_FLOAT, common.LTID_DOUBLE:
		return val.F64 == o.F64
	case common.LTID_VARCHAR, common.LTID_DECIMAL:
		return val.Str == o.Str
	case common.LTID_DATE:
		return val.I64 == o.I64 && val.I64_1 == o.I64_1 && val.I64_2 == o.I64_2
	case common.LTID_LIST, common.LTID_MAP:
		if len(val.Children) != len(o.Children) {
			return false
		}
		for i := range val.Children {
			if !val.Children[i].Equal(o.Children[i]) {
				return false
			}
		}
		return true
	default:
		panic("usp")
	}
}
