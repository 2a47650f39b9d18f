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

package main

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/helfman/velox/pkg/chunk"
	"github.com/helfman/velox/pkg/common"
	"github.com/helfman/velox/pkg/compute"
	"github.com/helfman/velox/pkg/util"
)

// demoSink accumulates per-batch results across workers.
type demoSink struct {
	lock        *util.ReentryLock
	batches     int
	nullInputs  int
	minNonNull  int64
	maxNonNull  int64
	mergedPairs int64
}

func (sink *demoSink) consume(
	data *chunk.Chunk,
	card int,
	minRes *chunk.Vector,
	maxRes *chunk.Vector,
	concatRes *chunk.Vector,
) {
	sink.lock.Lock()
	defer sink.lock.Unlock()
	sink.batches++
	if chunk.HasNull(data.Data[0], card) {
		sink.nullInputs++
	}
	for row := 0; row < card; row++ {
		if !minRes.GetValue(row).IsNull {
			sink.minNonNull++
		}
		if !maxRes.GetValue(row).IsNull {
			sink.maxNonNull++
		}
		val := concatRes.GetValue(row)
		if !val.IsNull {
			sink.mergedPairs += int64(len(val.Children) / 2)
		}
	}
}

func runDemo(cfg *util.Config) error {
	listTyp := common.ListType(common.IntegerType())
	mapTyp := common.MapType(common.VarcharType(), common.IntegerType())

	minCall, err := compute.GetFunctionByArgs("array_min",
		[]common.LType{listTyp})
	if err != nil {
		return err
	}
	maxCall, err := compute.GetFunctionByArgs("array_max",
		[]common.LType{listTyp})
	if err != nil {
		return err
	}
	concatCall, err := compute.GetFunctionByArgs("map_concat",
		[]common.LType{mapTyp, mapTyp})
	if err != nil {
		return err
	}

	workers := max(cfg.Demo.Workers, 1)
	batchSize := max(cfg.Demo.BatchSize, 1)
	batchCnt := (cfg.Demo.Rows + batchSize - 1) / batchSize

	sink := &demoSink{lock: util.NewReentryLock()}
	start := time.Now()

	if cfg.Demo.PrintResult {
		if err := previewBatch(cfg, listTyp, mapTyp,
			minCall, maxCall, concatCall); err != nil {
			return err
		}
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for worker := 0; worker < workers; worker++ {
		worker := worker
		g.Go(func() error {
			alloc := util.NewTrackingAllocator(cfg.Pool.CapBytes, util.GAlloc)
			rng := rand.New(rand.NewSource(cfg.Demo.Seed + int64(worker)))
			for batch := worker; batch < batchCnt; batch += workers {
				card := batchSize
				if batch == batchCnt-1 {
					card = cfg.Demo.Rows - batch*batchSize
				}
				if err := runBatch(cfg, alloc, rng, card,
					listTyp, mapTyp,
					minCall, maxCall, concatCall, sink); err != nil {
					return err
				}
			}
			util.Debug("worker done",
				zap.Int("worker", worker),
				zap.Int64("pool peak", alloc.Peak()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	util.Info("demo done",
		zap.Int("rows", cfg.Demo.Rows),
		zap.Int("batches", sink.batches),
		zap.Int("batches with null arrays", sink.nullInputs),
		zap.Int64("array_min non-null", sink.minNonNull),
		zap.Int64("array_max non-null", sink.maxNonNull),
		zap.Int64("map_concat pairs", sink.mergedPairs),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func runBatch(
	cfg *util.Config,
	alloc util.Allocator,
	rng *rand.Rand,
	card int,
	listTyp common.LType,
	mapTyp common.LType,
	minCall *compute.BoundCall,
	maxCall *compute.BoundCall,
	concatCall *compute.BoundCall,
	sink *demoSink,
) error {
	data := &chunk.Chunk{}
	data.Init([]common.LType{listTyp, mapTyp, mapTyp}, alloc, card)
	switch rng.Intn(4) {
	case 0:
		// constant batch: one value per column, repeated card times
		for col, typ := range data.Types() {
			vec := chunk.NewVector(typ, alloc, false, 0)
			if col == 0 {
				vec.ReferenceValue(randomList(cfg, rng, typ))
			} else {
				vec.ReferenceValue(randomMap(cfg, rng, typ))
			}
			data.Data[col] = vec
		}
	case 1:
		// dictionary batch: fill flat, then re-select every column
		// through one shared permutation so rows stay aligned
		fillBatch(cfg, rng, data, card, listTyp, mapTyp)
		perm := chunk.NewSelectVectorFromData(rng.Perm(card))
		for col, flat := range data.Data {
			wrapped := chunk.NewVector(flat.Typ(), alloc, false, 0)
			wrapped.Slice(flat, perm, card)
			data.Data[col] = wrapped
		}
	default:
		fillBatch(cfg, rng, data, card, listTyp, mapTyp)
	}
	data.SetCard(card)

	rows := chunk.NewSelectivityVector(card)

	var minRes, maxRes, concatRes *chunk.Vector
	minCtx := compute.NewEvalCtx(alloc, minCall.RetTyp)
	if err := minCall.Exec(rows, data.Data[:1], minCtx, &minRes); err != nil {
		return err
	}
	maxCtx := compute.NewEvalCtx(alloc, maxCall.RetTyp)
	if err := maxCall.Exec(rows, data.Data[:1], maxCtx, &maxRes); err != nil {
		return err
	}
	concatCtx := compute.NewEvalCtx(alloc, concatCall.RetTyp)
	if err := concatCall.Exec(rows, data.Data[1:3], concatCtx, &concatRes); err != nil {
		return err
	}

	sink.consume(data, card, minRes, maxRes, concatRes)
	return nil
}

func fillBatch(
	cfg *util.Config,
	rng *rand.Rand,
	data *chunk.Chunk,
	card int,
	listTyp common.LType,
	mapTyp common.LType,
) {
	for row := 0; row < card; row++ {
		data.Data[0].SetValue(row, randomList(cfg, rng, listTyp))
		data.Data[1].SetValue(row, randomMap(cfg, rng, mapTyp))
		data.Data[2].SetValue(row, randomMap(cfg, rng, mapTyp))
	}
}

// previewBatch evaluates a few rows up front and logs inputs and
// outputs side by side.
func previewBatch(
	cfg *util.Config,
	listTyp common.LType,
	mapTyp common.LType,
	minCall *compute.BoundCall,
	maxCall *compute.BoundCall,
	concatCall *compute.BoundCall,
) error {
	card := min(max(cfg.Demo.Rows, 1), 8)
	rng := rand.New(rand.NewSource(cfg.Demo.Seed))
	data := &chunk.Chunk{}
	data.Init([]common.LType{listTyp, mapTyp, mapTyp}, util.GAlloc, card)
	fillBatch(cfg, rng, data, card, listTyp, mapTyp)
	data.SetCard(card)
	data.Print2("input")

	rows := chunk.NewSelectivityVector(card)
	for _, call := range []*compute.BoundCall{minCall, maxCall, concatCall} {
		var res *chunk.Vector
		ctx := compute.NewEvalCtx(util.GAlloc, call.RetTyp)
		args := data.Data[:1]
		if call == concatCall {
			args = data.Data[1:3]
		}
		if err := call.Exec(rows, args, ctx, &res); err != nil {
			return err
		}
		res.Print2(call.FunImpl.Name(), card)
	}
	return nil
}

func randomList(cfg *util.Config, rng *rand.Rand, listTyp common.LType) *chunk.Value {
	if rng.Float64() < cfg.Demo.NullRatio {
		return &chunk.Value{Typ: listTyp, IsNull: true}
	}
	cnt := rng.Intn(8)
	val := &chunk.Value{Typ: listTyp}
	for i := 0; i < cnt; i++ {
		val.Children = append(val.Children, &chunk.Value{
			Typ: listTyp.ElemType(),
			I64: int64(rng.Intn(1000)),
		})
	}
	return val
}

func randomMap(cfg *util.Config, rng *rand.Rand, mapTyp common.LType) *chunk.Value {
	if rng.Float64() < cfg.Demo.NullRatio {
		return &chunk.Value{Typ: mapTyp, IsNull: true}
	}
	cnt := rng.Intn(4)
	val := &chunk.Value{Typ: mapTyp}
	for i := 0; i < cnt; i++ {
		// few distinct keys so concatenation hits duplicates
		key := fmt.Sprintf("k%d", rng.Intn(6))
		val.Children = append(val.Children,
			&chunk.Value{Typ: mapTyp.KeyType(), Str: key},
			&chunk.Value{Typ: mapTyp.ValueType(), I64: int64(rng.Intn(1000))})
	}
	return val
}
