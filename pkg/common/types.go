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

package common

import (
	"fmt"
	"unsafe"
)

type LTypeId int

const (
	LTID_INVALID  LTypeId = 0
	LTID_NULL     LTypeId = 1
	LTID_ANY      LTypeId = 3
	LTID_BOOLEAN  LTypeId = 10
	LTID_TINYINT  LTypeId = 11
	LTID_SMALLINT LTypeId = 12
	LTID_INTEGER  LTypeId = 13
	LTID_BIGINT   LTypeId = 14
	LTID_DATE     LTypeId = 15
	LTID_DECIMAL  LTypeId = 21
	LTID_FLOAT    LTypeId = 22
	LTID_DOUBLE   LTypeId = 23
	LTID_VARCHAR  LTypeId = 25
	LTID_UBIGINT  LTypeId = 31
	LTID_LIST     LTypeId = 101
	LTID_MAP      LTypeId = 102
)

var lTypeIdToStr = map[LTypeId]string{
	LTID_INVALID:  "LTID_INVALID",
	LTID_NULL:     "LTID_NULL",
	LTID_ANY:      "LTID_ANY",
	LTID_BOOLEAN:  "LTID_BOOLEAN",
	LTID_TINYINT:  "LTID_TINYINT",
	LTID_SMALLINT: "LTID_SMALLINT",
	LTID_INTEGER:  "LTID_INTEGER",
	LTID_BIGINT:   "LTID_BIGINT",
	LTID_DATE:     "LTID_DATE",
	LTID_DECIMAL:  "LTID_DECIMAL",
	LTID_FLOAT:    "LTID_FLOAT",
	LTID_DOUBLE:   "LTID_DOUBLE",
	LTID_VARCHAR:  "LTID_VARCHAR",
	LTID_UBIGINT:  "LTID_UBIGINT",
	LTID_LIST:     "LTID_LIST",
	LTID_MAP:      "LTID_MAP",
}

func (id LTypeId) String() string {
	if s, has := lTypeIdToStr[id]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", int(id)))
}

type PhyType int

const (
	NA      PhyType = 0
	BOOL    PhyType = 1
	INT8    PhyType = 3
	INT16   PhyType = 5
	INT32   PhyType = 7
	UINT64  PhyType = 8
	INT64   PhyType = 9
	FLOAT   PhyType = 11
	DOUBLE  PhyType = 12
	LIST    PhyType = 23
	VARCHAR PhyType = 200
	DATE    PhyType = 207
	DECIMAL PhyType = 209

	INVALID PhyType = 255
)

var pTypeToStr = map[PhyType]string{
	NA:      "NA",
	BOOL:    "BOOL",
	INT8:    "INT8",
	INT16:   "INT16",
	INT32:   "INT32",
	UINT64:  "UINT64",
	INT64:   "INT64",
	FLOAT:   "FLOAT",
	DOUBLE:  "DOUBLE",
	LIST:    "LIST",
	VARCHAR: "VARCHAR",
	DATE:    "DATE",
	DECIMAL: "DECIMAL",
	INVALID: "INVALID",
}

func (pt PhyType) String() string {
	if s, has := pTypeToStr[pt]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", pt))
}

var (
	BoolSize      int
	Int8Size      int
	Int16Size     int
	Int32Size     int
	Int64Size     int
	Float32Size   int
	VarcharSize   int
	DateSize      int
	DecimalSize   int
	ListEntrySize int
)

func init() {
	b := false
	BoolSize = int(unsafe.Sizeof(b))
	i := int8(0)
	Int8Size = int(unsafe.Sizeof(i))
	Int16Size = Int8Size * 2
	Int32Size = Int8Size * 4
	Int64Size = Int8Size * 8
	f := float32(0)
	Float32Size = int(unsafe.Sizeof(f))
	VarcharSize = int(unsafe.Sizeof(String{}))
	DateSize = int(unsafe.Sizeof(Date{}))
	DecimalSize = int(unsafe.Sizeof(Decimal{}))
	e := struct{ offset, length uint64 }{}
	ListEntrySize = int(unsafe.Sizeof(e))
}

func (pt PhyType) Size() int {
	switch pt {
	case BOOL:
		return BoolSize
	case INT8:
		return Int8Size
	case INT16:
		return Int16Size
	case INT32:
		return Int32Size
	case INT64, UINT64:
		return Int64Size
	case FLOAT:
		return Float32Size
	case DOUBLE:
		return Int64Size
	case VARCHAR:
		return VarcharSize
	case DATE:
		return DateSize
	case DECIMAL:
		return DecimalSize
	case LIST:
		return ListEntrySize
	default:
		panic("usp")
	}
}

// IsConstant means fixed-width plain data that can be moved with copy.
func (pt PhyType) IsConstant() bool {
	return pt >= BOOL && pt <= DOUBLE ||
		pt == DATE ||
		pt == DECIMAL
}

func (pt PhyType) IsVarchar() bool {
	return pt == VARCHAR
}

func (pt PhyType) IsList() bool {
	return pt == LIST
}

// LType is the logical element type of a vector. It is immutable and
// shared across the vector's lifetime. Composite types carry their
// child types: one element type for LIST, key then value for MAP.
type LType struct {
	Id        LTypeId
	PTyp      PhyType
	Width     int
	Scale     int
	ChildTyps []LType
}

func MakeLType(id LTypeId) LType {
	ret := LType{Id: id}
	ret.PTyp = ret.GetInternalType()
	return ret
}

func Null() LType {
	return MakeLType(LTID_NULL)
}

func BooleanType() LType {
	return MakeLType(LTID_BOOLEAN)
}

func TinyintType() LType {
	return MakeLType(LTID_TINYINT)
}

func SmallintType() LType {
	return MakeLType(LTID_SMALLINT)
}

func IntegerType() LType {
	return MakeLType(LTID_INTEGER)
}

func BigintType() LType {
	return MakeLType(LTID_BIGINT)
}

func UbigintType() LType {
	return MakeLType(LTID_UBIGINT)
}

func FloatType() LType {
	return MakeLType(LTID_FLOAT)
}

func DoubleType() LType {
	return MakeLType(LTID_DOUBLE)
}

func VarcharType() LType {
	return MakeLType(LTID_VARCHAR)
}

func DateType() LType {
	return MakeLType(LTID_DATE)
}

func DecimalType(width, scale int) LType {
	ret := MakeLType(LTID_DECIMAL)
	ret.Width = width
	ret.Scale = scale
	return ret
}

func ListType(elem LType) LType {
	ret := MakeLType(LTID_LIST)
	ret.ChildTyps = []LType{elem}
	return ret
}

func MapType(key LType, value LType) LType {
	ret := MakeLType(LTID_MAP)
	ret.ChildTyps = []LType{key, value}
	return ret
}

func (lt LType) GetInternalType() PhyType {
	switch lt.Id {
	case LTID_BOOLEAN:
		return BOOL
	case LTID_TINYINT:
		return INT8
	case LTID_SMALLINT:
		return INT16
	case LTID_NULL, LTID_INTEGER:
		return INT32
	case LTID_BIGINT:
		return INT64
	case LTID_UBIGINT:
		return UINT64
	case LTID_FLOAT:
		return FLOAT
	case LTID_DOUBLE:
		return DOUBLE
	case LTID_VARCHAR:
		return VARCHAR
	case LTID_DATE:
		return DATE
	case LTID_DECIMAL:
		return DECIMAL
	case LTID_LIST, LTID_MAP:
		return LIST
	case LTID_ANY, LTID_INVALID:
		return INVALID
	default:
		panic(fmt.Sprintf("usp %d", int(lt.Id)))
	}
}

func (lt LType) IsList() bool {
	return lt.Id == LTID_LIST
}

func (lt LType) IsMap() bool {
	return lt.Id == LTID_MAP
}

// ElemType is the element type of a LIST.
func (lt LType) ElemType() LType {
	if lt.Id != LTID_LIST || len(lt.ChildTyps) != 1 {
		panic("usp")
	}
	return lt.ChildTyps[0]
}

// KeyType and ValueType are the child types of a MAP.
func (lt LType) KeyType() LType {
	if lt.Id != LTID_MAP || len(lt.ChildTyps) != 2 {
		panic("usp")
	}
	return lt.ChildTyps[0]
}

func (lt LType) ValueType() LType {
	if lt.Id != LTID_MAP || len(lt.ChildTyps) != 2 {
		panic("usp")
	}
	return lt.ChildTyps[1]
}

func (lt LType) Equal(o LType) bool {
	if lt.Id != o.Id {
		return false
	}
	if lt.Id == LTID_DECIMAL &&
		(lt.Width != o.Width || lt.Scale != o.Scale) {
		return false
	}
	if len(lt.ChildTyps) != len(o.ChildTyps) {
		return false
	}
	for i := range lt.ChildTyps {
		if !lt.ChildTyps[i].Equal(o.ChildTyps[i]) {
			return false
		}
	}
	return true
}

func (lt LType) String() string {
	switch lt.Id {
	case LTID_DECIMAL:
		return fmt.Sprintf("DECIMAL(%d,%d)", lt.Width, lt.Scale)
	case LTID_LIST:
		return fmt.Sprintf("LIST(%s)", lt.ElemType().String())
	case LTID_MAP:
		return fmt.Sprintf("MAP(%s,%s)",
			lt.KeyType().String(), lt.ValueType().String())
	default:
		return lt.Id.String()
	}
}

func CopyLTypes(typs ...LType) []LType {
	ret := make([]LType, 0)
	ret = append(ret, typs...)
	return ret
}
