// Copyright 2025 The Owlmorph Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/cmd/owlmorph/command"
	"github.com/owlmorph/owlmorph/version"

	// Route logs through glog.
	_ "github.com/owlmorph/owlmorph/clog/glog"

	// Register well-known vocabularies.
	_ "github.com/owlmorph/owlmorph/voc/core"

	// Load all supported quad formats.
	_ "github.com/cayleygraph/quad/jsonld"
	_ "github.com/cayleygraph/quad/nquads"
)

const configName = "owlmorph"

func configFile(cmd *cobra.Command) error {
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName(configName)
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.AddConfigPath("/etc")
	}
	viper.SetEnvPrefix("owlmorph")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	} else if clog.V(1) {
		clog.Infof("using config file: %s", viper.ConfigFileUsed())
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "owlmorph",
		Short:   "owlmorph matches patterns over RDF datasets and rewrites graphs.",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configFile(cmd); err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetInt("verbosity"); v > 0 {
				clog.SetV(v)
			}
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to an explicit configuration file")
	rootCmd.PersistentFlags().Int("verbosity", 0, "log level for V logs")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write memory profile to file")

	rootCmd.AddCommand(
		command.NewQueryCmd(),
		command.NewReplCmd(),
		command.NewHttpCmd(),
		command.NewDumpCmd(),
		command.NewVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
