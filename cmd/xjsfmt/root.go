// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootCmd = &cobra.Command{
		Use:          "xjsfmt",
		Short:        "xjsfmt",
		SilenceUsage: true,
		Long:         `xjsfmt formats, minimizes, or standardizes DJS/JSON files.`,
	}

	verbose    bool
	configPath string

	log = logrus.StandardLogger()
)

// Execute runs the root command.
func Execute() error {
	bindPersistentFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}
	return rootCmd.Execute()
}

// bindPersistentFlags registers the flags every subcommand inherits. It
// takes the *pflag.FlagSet directly (cobra's own Command.PersistentFlags
// already returns one) so the set of flags a new subcommand must not
// redeclare is explicit at the call site.
func bindPersistentFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "log one line per file processed")
	fs.StringVarP(&configPath, "config", "c", "", "path to .xjsfmt.toml (default: search upward from cwd)")
}

func init() {
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(minimizeCmd)
	rootCmd.AddCommand(standardizeCmd)
}
