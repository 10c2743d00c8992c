// Package cli wires the kong command-line interface for protempl: global
// logging and profiling flag groups, configuration file loading (JSON or
// the document grammar itself), and dispatch to the subcommands in
// [github.com/ardnew/protempl/cli/cmd].
package cli
