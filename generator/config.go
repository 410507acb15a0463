// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

// Config contains run-wide target configuration.
type Config struct {
	// Module is the import path of the output root. Artifacts that import
	// entity packages join it with the entity directory.
	Module string
}
