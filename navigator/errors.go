// SPDX-License-Identifier: MIT

package navigator

import (
	"context"
	"errors"

	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/graphstore"
)

// Error taxonomy. Every Engine failure matches exactly one of these with errors.Is.
var (
	// ErrNotFound: a start, destination or congestion location is unknown.
	ErrNotFound = core.ErrLocationNotFound

	// ErrNoPath: both endpoints exist but the destination is unreachable.
	ErrNoPath = errors.New("navigator: no path")

	// ErrNoExit: no exit is reachable from the start.
	ErrNoExit = errors.New("navigator: no reachable exit")

	// ErrNoEntranceConfigured: entrance selection found no designated entrance.
	ErrNoEntranceConfigured = errors.New("navigator: no entrance configured")

	// ErrNoPathFromAnyEntrance: entrances exist but none reaches the destination.
	ErrNoPathFromAnyEntrance = errors.New("navigator: no path from any entrance")

	// ErrStoreUnavailable: the graph could not be loaded.
	ErrStoreUnavailable = graphstore.ErrStoreUnavailable

	// ErrStartRequired: an emergency request came without a start.
	ErrStartRequired = errors.New("navigator: start location required")

	// ErrDestinationRequired: a non-emergency request came without a destination.
	ErrDestinationRequired = errors.New("navigator: destination required")

	// ErrQRNotFound: no location carries the QR code.
	ErrQRNotFound = errors.New("navigator: QR code not found")

	// ErrPersistFailed: the congestion penalty was applied but could not be stored.
	ErrPersistFailed = errors.New("navigator: congestion persist failed")

	// ErrInvalidCount: a negative occupancy count.
	ErrInvalidCount = errors.New("navigator: occupancy count must be non-negative")
)

// Code maps err to a stable machine-readable code for logs, metrics and
// HTTP bodies. nil maps to "".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQRNotFound):
		return "qr_not_found"
	case errors.Is(err, ErrNoPathFromAnyEntrance):
		return "no_path_from_any_entrance"
	case errors.Is(err, ErrNoEntranceConfigured):
		return "no_entrance_configured"
	case errors.Is(err, ErrNoExit):
		return "no_exit"
	case errors.Is(err, ErrNoPath):
		return "no_path"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStartRequired):
		return "start_required"
	case errors.Is(err, ErrDestinationRequired):
		return "destination_required"
	case errors.Is(err, ErrInvalidCount):
		return "invalid_count"
	case errors.Is(err, ErrPersistFailed):
		return "persist_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}
