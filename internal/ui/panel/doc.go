// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panel renders the analysis panel of the Symptoms tab.
//
// The panel owns no lifecycle of its own. It draws whatever the
// session.Controller reports: the status line, the animated accuracy figure
// and the sections revealed so far. Headings appear only once their section
// has started to reveal.
package panel
