// Package cmd implements the protempl subcommands: resolving, querying,
// and formatting template documents, plus configuration bootstrap.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It doubles as the name of the top-level entry
	// the file declares.
	ConfigIdentifier = "config"
)
