package repl

import "github.com/ardnew/protempl/cli/cmd"

var (
	ErrLoadSource = cmd.NewError("load source")
	ErrInterface  = cmd.NewError("run interactive session")
)
