// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command triage is a terminal front end for the medical symptom analysis
// service.
package main

import (
	"os"

	"github.com/jeranaias/triage-tui/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
