package util

import (
	"bytes"
	"unsafe"
)

var IntSize = int(unsafe.Sizeof(int(0)))

func ToSlice[T any](data []byte, pSize int) []T {
	slen := len(data) / pSize
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), slen)
}

func PointerToSlice[T any](base unsafe.Pointer, len int) []T {
	return unsafe.Slice((*T)(base), len)
}

func PointerAdd(base unsafe.Pointer, offset int) unsafe.Pointer {
	return unsafe.Add(base, offset)
}

func PointerCopy(dst, src unsafe.Pointer, len int) {
	dstSlice := PointerToSlice[byte](dst, len)
	srcSlice := PointerToSlice[byte](src, len)
	copy(dstSlice, srcSlice)
}

func PointerMemcmp(lAddr, rAddr unsafe.Pointer, len1, len2 int) int {
	lSlice := PointerToSlice[byte](lAddr, len1)
	rSlice := PointerToSlice[byte](rAddr, len2)
	return bytes.Compare(lSlice, rSlice)
}
