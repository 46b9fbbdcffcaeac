// Package wazerohost bridges capability modules into wazero runtimes.
//
// It provides the two concrete pieces the core bridge leaves abstract: a
// RuntimeHandle backed by a wazero runtime, and a Delegate that installs Go
// functions as a wazero host module. Hosts that embed a different scripting
// engine implement the same two interfaces against their own engine.
package wazerohost
