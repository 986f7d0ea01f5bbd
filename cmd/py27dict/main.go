// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command py27dict canonicalizes documents into Python 2.7 dict order
// and evaluates feature toggles.
package main

import (
	"log/slog"
	"os"

	"github.com/aristanetworks/py27dict/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
