package lang

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/protempl/log"
)

// parseCache memoizes parse results keyed by a content hash of the source
// text, so repeated parses of identical documents (common when many hosts
// share one prelude or template file) do the work once.
//
// Documents are immutable after parsing, so sharing the cached result is
// safe. Only default-option parses are cached; custom options bypass it.
var parseCache sync.Map // uint64 -> *cacheState

// cacheState holds one memoized parse, populated exactly once.
type cacheState struct {
	once sync.Once
	doc  *Document
	err  error
}

// parseStringCached parses src through the content-addressed cache.
func parseStringCached(ctx context.Context, src string) (*Document, error) {
	key := xxh3.HashString(src)

	entry, _ := parseCache.LoadOrStore(key, new(cacheState))
	state := entry.(*cacheState)

	state.once.Do(func() {
		state.doc, state.err = parse(ctx, src)

		var logger log.Logger
		if state.doc != nil {
			logger = state.doc.logger
		}

		logger.TraceContext(ctx, "parse cached",
			slog.Uint64("key", key),
			slog.Int("source_length", len(src)))
	})

	return state.doc, state.err
}

// ClearCache discards all memoized parse results.
func ClearCache() {
	parseCache.Clear()
}

// ParseReader reads all of r and parses the content. Reads are pipelined
// through an asynchronous read-ahead buffer, which overlaps I/O with
// upstream decompression or network latency for large inputs.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(src), opts...)
}
