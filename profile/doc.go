// Package profile provides optional runtime profiling for the protempl
// application.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// When built without the tag (the default), all operations are no-ops
// with zero runtime overhead.
//
// When built with the tag, the modes listed by [Modes] are available and
// selected at runtime via the --pprof-mode flag:
//
//	go build -tags pprof
//	./protempl --pprof-mode cpu resolve doc.pt
//
// Profile files are written to the cache directory by default, named for
// the profiling mode (cpu.pprof, mem.pprof, and so on), and analyzed with
// the standard tooling:
//
//	go tool pprof ./protempl cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
