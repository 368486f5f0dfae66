// Package state persists snapshots of reference builds.
//
// A SystemState records the file list of every partition of a reference
// build, and optionally its module index, so later generation runs can diff
// against it without keeping the build output around. Snapshots are
// versioned, zstd-compressed and carry a content digest that is verified on
// load.
package state
