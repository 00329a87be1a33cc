package emitter

import (
	"fmt"
	"io"
	"sync"

	"github.com/kochabx/clea/lsp"
)

// Sink receives every deep link the emitter renders.
type Sink interface {
	Emit(link string, part lsp.LocationSpecificPart) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(link string, part lsp.LocationSpecificPart) error

// Emit calls f.
func (f SinkFunc) Emit(link string, part lsp.LocationSpecificPart) error {
	return f(link, part)
}

// WriterSink writes one link per line to w.
func WriterSink(w io.Writer) Sink {
	var mu sync.Mutex
	return SinkFunc(func(link string, _ lsp.LocationSpecificPart) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(w, link)
		return err
	})
}
