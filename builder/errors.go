// SPDX-License-Identifier: MIT
// Package: wayfind/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only package-level sentinels are exposed; branch with errors.Is.
//   • Implementations attach context with %w.
//   • Runtime code never panics; validation panics are confined to option
//     constructors (WithX...).

package builder

import "errors"

// ErrTooFewLocations indicates that a size parameter (rows, cols) is below the minimum.
var ErrTooFewLocations = errors.New("builder: parameter too small")

// ErrInvalidSpacing indicates a non-positive or NaN spacing between locations.
var ErrInvalidSpacing = errors.New("builder: spacing must be positive")

// ErrConstructFailed indicates a constructor could not complete (e.g. nil constructor).
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrUnknownLayout indicates a seed layout name that Layout cannot parse.
var ErrUnknownLayout = errors.New("builder: unknown layout")
