// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command hubctl is the command-line client for the hub content service.
package main

import (
	"fmt"
	"os"

	"github.com/kemujan/hubcms/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
