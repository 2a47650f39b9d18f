package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_bitmapDefaultAllValid(t *testing.T) {
	bm := &Bitmap{}
	assert.True(t, bm.AllValid())
	assert.False(t, bm.IsMaskSet())
	for i := 0; i < 100; i++ {
		assert.True(t, bm.RowIsValid(uint64(i)))
	}
}

func Test_bitmapSetInvalid(t *testing.T) {
	bm := &Bitmap{}
	bm.SetInvalid(3)
	assert.True(t, bm.IsMaskSet())
	assert.False(t, bm.RowIsValid(3))
	assert.True(t, bm.RowIsValid(2))
	assert.True(t, bm.RowIsValid(4))

	bm.SetValid(3)
	assert.True(t, bm.RowIsValid(3))
}

func Test_bitmapEntryOps(t *testing.T) {
	bm := &Bitmap{}
	bm.Init(128)
	assert.Equal(t, 2, EntryCount(128))
	assert.True(t, AllValidInEntry(bm.GetEntry(0)))
	assert.False(t, NoneValidInEntry(bm.GetEntry(1)))

	for i := 64; i < 128; i++ {
		bm.SetInvalidUnsafe(uint64(i))
	}
	assert.True(t, NoneValidInEntry(bm.GetEntry(1)))
	assert.True(t, AllValidInEntry(bm.GetEntry(0)))
}

func Test_bitmapSetAll(t *testing.T) {
	bm := &Bitmap{}
	bm.SetAllInvalid(70)
	for i := 0; i < 70; i++ {
		assert.False(t, bm.RowIsValid(uint64(i)))
	}
	assert.Equal(t, 0, bm.CountValid(70))

	bm.SetAllValid(70)
	for i := 0; i < 70; i++ {
		assert.True(t, bm.RowIsValid(uint64(i)))
	}
	assert.Equal(t, 70, bm.CountValid(70))
}

func Test_bitmapCountValid(t *testing.T) {
	bm := &Bitmap{}
	assert.Equal(t, 100, bm.CountValid(100))

	bm.Init(100)
	bm.SetInvalidUnsafe(0)
	bm.SetInvalidUnsafe(65)
	bm.SetInvalidUnsafe(99)
	assert.Equal(t, 97, bm.CountValid(100))
}

func Test_bitmapCombine(t *testing.T) {
	left := &Bitmap{}
	left.Init(64)
	left.SetInvalidUnsafe(1)

	right := &Bitmap{}
	right.Init(64)
	right.SetInvalidUnsafe(2)

	left.Combine(right, 64)
	assert.False(t, left.RowIsValid(1))
	assert.False(t, left.RowIsValid(2))
	assert.True(t, left.RowIsValid(3))
}

func Test_bitmapResize(t *testing.T) {
	bm := &Bitmap{}
	bm.Init(64)
	bm.SetInvalidUnsafe(5)
	bm.Resize(64, 256)
	assert.False(t, bm.RowIsValid(5))
	for i := 64; i < 256; i++ {
		assert.True(t, bm.RowIsValid(uint64(i)))
	}
}
