// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	xjs "github.com/ExJson/xjs-data"
)

var minimizeFlags transformFlags

var minimizeCmd = &cobra.Command{
	Use:   "minimize [path ...]",
	Short: "Collapse DJS/JSON files to their smallest faithful rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransform("minimize", xjs.Minimize, minimizeFlags, args)
	},
}

func init() {
	minimizeFlags.bind(minimizeCmd.Flags())
}
