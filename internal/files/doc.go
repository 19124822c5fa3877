// Package files provides file system discovery and management for the
// ticket analytics tools.
//
// Discovery locates the input CSV among an ordered list of candidates and
// enumerates optional image assets. Manager writes reports atomically under
// the configured output directories.
//
//	discovery := files.NewDiscovery(baseDir)
//	info, ok := discovery.FirstExisting(candidates)
package files
