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

package util

type DemoOptions struct {
	Rows        int     `toml:"rows"`
	BatchSize   int     `toml:"batchSize"`
	Workers     int     `toml:"workers"`
	NullRatio   float64 `toml:"nullRatio"`
	PrintResult bool    `toml:"printResult"`
	Seed        int64   `toml:"seed"`
}

type PoolOptions struct {
	CapBytes int64 `toml:"capBytes"`
}

type DebugOptions struct {
	Verbose bool `toml:"verbose"`
}

type Config struct {
	Demo  DemoOptions  `toml:"demo"`
	Pool  PoolOptions  `toml:"pool"`
	Debug DebugOptions `toml:"debug"`
}
