package common

import (
	"unsafe"

	"github.com/helfman/velox/pkg/util"
)

// String is the in-vector representation of VARCHAR: a length plus a
// pointer to bytes malloc'd outside the Go heap. Vector slots only
// carry the header; the bytes are shared when vectors are shared.
type String struct {
	Len  int
	Data unsafe.Pointer
}

func (s *String) DataSlice() []byte {
	return util.PointerToSlice[byte](s.Data, s.Len)
}

func (s *String) DataPtr() unsafe.Pointer {
	return s.Data
}

func (s *String) String() string {
	return string(s.DataSlice())
}

func (s *String) Length() int {
	return s.Len
}

func (s *String) Equal(o *String) bool {
	if s.Len != o.Len {
		return false
	}
	return util.PointerMemcmp(s.Data, o.Data, s.Len, o.Len) == 0
}

func (s *String) Less(o *String) bool {
	return util.PointerMemcmp(s.Data, o.Data, s.Len, o.Len) < 0
}

func (s *String) Compare(o *String) int {
	return util.PointerMemcmp(s.Data, o.Data, s.Len, o.Len)
}

// CopyString clones raw bytes into a fresh malloc'd String.
func CopyString(src string) String {
	byteSlice := []byte(src)
	mem := util.CMalloc(len(byteSlice))
	dst := util.PointerToSlice[byte](mem, len(byteSlice))
	copy(dst, byteSlice)
	return String{
		Data: mem,
		Len:  len(dst),
	}
}

func CloneString(src *String) String {
	mem := util.CMalloc(src.Len)
	util.PointerCopy(mem, src.Data, src.Len)
	return String{
		Data: mem,
		Len:  src.Len,
	}
}
