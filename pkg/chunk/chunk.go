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
	"strings"

	"go.uber.org/zap"

	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/util"
)

// Chunk is a batch of column vectors sharing one cardinality.
type Chunk struct {
	Data  []*Vector
	count int
	cap   int
}

func (c *Chunk) Init(types []common.LType, alloc util.Allocator, cap int) {
	c.cap = cap
	c.Data = nil
	for _, lTyp := range types {
		c.Data = append(c.Data, NewFlatVector(lTyp, alloc, cap))
	}
}

func (c *Chunk) Reset() {
	if len(c.Data) == 0 {
		return
	}
	for _, vec := range c.Data {
		vec.Reset()
	}
	c.count = 0
}

func (c *Chunk) Card() int {
	return c.count
}

func (c *Chunk) SetCard(count int) {
	util.AssertFunc(count <= c.cap)
	c.count = count
}

func (c *Chunk) Cap() int {
	return c.cap
}

func (c *Chunk) ColumnCount() int {
	return len(c.Data)
}

func (c *Chunk) Types() []common.LType {
	types := make([]common.LType, 0, len(c.Data))
	for _, vec := range c.Data {
		types = append(types, vec.Typ())
	}
	return types
}

// Reference makes this chunk a zero-copy view of other.
func (c *Chunk) Reference(other *Chunk) {
	util.AssertFunc(len(c.Data) <= len(other.Data))
	c.count = other.count
	c.cap = other.cap
	for i := 0; i < len(c.Data); i++ {
		c.Data[i].Reference(other.Data[i])
	}
}

func (c *Chunk) ToUnifiedFormat() []*UnifiedFormat {
	ret := make([]*UnifiedFormat, c.ColumnCount())
	for i := 0; i < c.ColumnCount(); i++ {
		ret[i] = &UnifiedFormat{}
		c.Data[i].ToUnifiedFormat(c.count, ret[i])
	}
	return ret
}

func (c *Chunk) Print2(prefix string) {
	for row := 0; row < c.count; row++ {
		sb := strings.Builder{}
		for col := 0; col < c.ColumnCount(); col++ {
			if col > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(c.Data[col].GetValue(row).String())
		}
		util.Info(prefix, zap.Int("row", row), zap.String("cols", sb.String()))
	}
}
