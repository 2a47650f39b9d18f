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
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/helfman/velox/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initRunCmd()
}

var demoCfg = &util.Config{}

///root cmd

var info = "demo"
var RootCmd = &cobra.Command{
	Use:          "demo",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use demo --help or -h")
	},
}

//run cmd

var runInfo = "evaluate array_min/array_max/map_concat over generated batches"
var runCmd = &cobra.Command{
	Use:   "run",
	Short: runInfo,
	Long:  runInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		initRunCfg()
		util.SetupLogger(demoCfg.Debug.Verbose)
		return runDemo(demoCfg)
	},
}

func initRunCfg() {
	demoCfg.Demo.Rows = viper.GetInt("demo.rows")
	demoCfg.Demo.BatchSize = viper.GetInt("demo.batchSize")
	demoCfg.Demo.Workers = viper.GetInt("demo.workers")
	demoCfg.Demo.NullRatio = viper.GetFloat64("demo.nullRatio")
	demoCfg.Demo.PrintResult = viper.GetBool("demo.printResult")
	demoCfg.Demo.Seed = viper.GetInt64("demo.seed")
	demoCfg.Pool.CapBytes = viper.GetInt64("pool.capBytes")
	demoCfg.Debug.Verbose = viper.GetBool("debug.verbose")
}

func initRunCmd() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&demoCfg.Demo.Rows, "rows", 1<<20, "total rows to generate")
	runCmd.Flags().IntVar(&demoCfg.Demo.BatchSize, "batch_size", util.DefaultVectorSize, "rows per batch")
	runCmd.Flags().IntVar(&demoCfg.Demo.Workers, "workers", 4, "parallel workers")
	runCmd.Flags().Float64Var(&demoCfg.Demo.NullRatio, "null_ratio", 0.1, "fraction of null rows")
	runCmd.Flags().BoolVar(&demoCfg.Demo.PrintResult, "print_result", false, "print the first batch of results")
	runCmd.Flags().Int64Var(&demoCfg.Demo.Seed, "seed", 1, "random seed")
	runCmd.Flags().Int64Var(&demoCfg.Pool.CapBytes, "pool_cap", 1<<30, "per worker pool cap in bytes")

	viper.BindPFlag("demo.rows", runCmd.Flags().Lookup("rows"))
	viper.BindPFlag("demo.batchSize", runCmd.Flags().Lookup("batch_size"))
	viper.BindPFlag("demo.workers", runCmd.Flags().Lookup("workers"))
	viper.BindPFlag("demo.nullRatio", runCmd.Flags().Lookup("null_ratio"))
	viper.BindPFlag("demo.printResult", runCmd.Flags().Lookup("print_result"))
	viper.BindPFlag("demo.seed", runCmd.Flags().Lookup("seed"))
	viper.BindPFlag("pool.capBytes", runCmd.Flags().Lookup("pool_cap"))
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "demo.toml"

func loadConfig() {
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			_, err := toml.DecodeFile(fpath, demoCfg)
			if err != nil {
				util.Error("load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			viper.SetConfigFile(fpath)
			if err = viper.ReadInConfig(); err != nil {
				util.Error("viper load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
			}
			break
		}
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		util.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}
