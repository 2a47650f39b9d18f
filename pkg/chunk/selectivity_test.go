package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_selectivityAllSelected(t *testing.T) {
	rows := NewSelectivityVector(100)
	assert.Equal(t, 100, rows.Size())
	assert.Equal(t, 100, rows.CountSelected())
	assert.True(t, rows.AllSelected())
	assert.Equal(t, 0, rows.Begin())
	assert.Equal(t, 100, rows.End())
	for i := 0; i < 100; i++ {
		assert.True(t, rows.IsSelected(i))
	}
}

func Test_selectivityDeselect(t *testing.T) {
	rows := NewSelectivityVector(10)
	rows.SetValid(0, false)
	rows.SetValid(9, false)
	assert.Equal(t, 8, rows.CountSelected())
	assert.False(t, rows.AllSelected())
	assert.False(t, rows.IsSelected(0))
	assert.True(t, rows.IsSelected(1))
	assert.Equal(t, 1, rows.Begin())
	assert.Equal(t, 9, rows.End())
}

func Test_selectivityNone(t *testing.T) {
	rows := NewSelectivityVectorNone(50)
	assert.Equal(t, 0, rows.CountSelected())
	rows.SetValid(7, true)
	rows.SetValid(31, true)
	assert.Equal(t, 2, rows.CountSelected())
	assert.Equal(t, 7, rows.Begin())
	assert.Equal(t, 32, rows.End())
}

func Test_selectivityApplyOrder(t *testing.T) {
	rows := NewSelectivityVector(200)
	for i := 0; i < 200; i += 3 {
		rows.SetValid(i, false)
	}
	var visited []int
	rows.ApplyToSelected(func(row int) {
		visited = append(visited, row)
	})
	assert.Equal(t, rows.CountSelected(), len(visited))
	last := -1
	for _, row := range visited {
		assert.Greater(t, row, last)
		assert.True(t, rows.IsSelected(row))
		last = row
	}
}

func Test_selectivityApplySkipsEmptyEntries(t *testing.T) {
	// only the last 64-row entry holds selected rows
	rows := NewSelectivityVectorNone(256)
	rows.SetValid(200, true)
	rows.SetValid(255, true)
	var visited []int
	rows.ApplyToSelected(func(row int) {
		visited = append(visited, row)
	})
	assert.Equal(t, []int{200, 255}, visited)
}

func Test_selectivityClone(t *testing.T) {
	rows := NewSelectivityVector(64)
	rows.SetValid(10, false)
	dup := rows.Clone()
	dup.SetValid(20, false)
	assert.False(t, dup.IsSelected(10))
	assert.False(t, dup.IsSelected(20))
	assert.True(t, rows.IsSelected(20))
}

func Test_selectVectorCompose(t *testing.T) {
	inner := NewSelectVectorFromData([]int{5, 6, 7, 8})
	outer := NewSelectVectorFromData([]int{3, 1, 0})
	composed := inner.Slice(outer, 3)
	assert.Equal(t, []int{8, 6, 5}, composed)

	identity := &SelectVector{}
	assert.True(t, identity.Invalid())
	assert.Equal(t, 42, identity.GetIndex(42))
	same := inner.Slice(identity, 4)
	assert.Equal(t, []int{5, 6, 7, 8}, same)
}
