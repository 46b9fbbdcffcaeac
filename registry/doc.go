// Package registry tracks active installations per runtime handle.
//
// HandleRegistry is the one piece of shared mutable state in the bridge. It
// has no package-level instance: the host constructs one with New, owns its
// lifetime, and passes it to bridge.New. Hosts that want process-wide
// exclusivity share a single registry across all bridges.
package registry
