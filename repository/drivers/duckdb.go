// SPDX-License-Identifier: MIT

//go:build cgo && duckdb && (linux || darwin || windows) && (amd64 || arm64)

package drivers

import (
	// Registered as "duckdb". Needs CGO, so it is opt-in:
	//
	//	CGO_ENABLED=1 go build -tags duckdb ./cmd/wayfind
	_ "github.com/marcboeker/go-duckdb"
)
