// Package model defines the domain entities shared across layers.
//
// The types carry JSON tags for the HTTP and cache layers but no persistence
// concerns; repositories map them to tables explicitly.
package model
