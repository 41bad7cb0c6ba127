package runner

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/botbridge/pkg/domain"
	"golang.org/x/term"
)

// JSONHandler reads one request body and writes one response line.
type JSONHandler struct {
	Reader io.Reader
	Writer io.Writer
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader: r,
		Writer: w,
	}
}

// Interactive reports whether the request body would be typed on a terminal.
func (h *JSONHandler) Interactive() bool {
	f, ok := h.Reader.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadUpdate consumes the whole input stream and decodes it.
// Failures wrap domain.ErrParse.
func (h *JSONHandler) ReadUpdate() (domain.Update, error) {
	data, err := io.ReadAll(h.Reader)
	if err != nil {
		return domain.Update{}, fmt.Errorf("%w: failed to read update: %v", domain.ErrParse, err)
	}
	return domain.ParseUpdate(data)
}

// WriteLine writes one already encoded envelope followed by a newline.
func (h *JSONHandler) WriteLine(line []byte) error {
	if bytes.ContainsAny(line, "\r\n") {
		return fmt.Errorf("response is not a single line")
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	_, err := h.Writer.Write(buf)
	return err
}
