// Package consolidate merges several marker-delimited regions of a Document
// into a single consolidated region.
//
// The work is split into a pure transformation and a check:
//
//  1. Apply scans the document, runs every boundary assertion of the plan
//     and, only if all of them hold, renders the new document. Nothing is
//     written here; a *BoundaryError means the caller must not touch the file.
//  2. Verify runs after the new content has been written and compares the
//     number of opening markers with what the plan expects. A mismatch is a
//     *ConsistencyWarning; whether it fails the run is the caller's policy.
//
// Regions are found by scanning for paired markers, never by trusting line
// numbers alone. Line numbers in a plan are assertions on top of the scan.
package consolidate
