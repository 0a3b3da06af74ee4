package params

import (
	"bufio"
	"io"
)

// Sink writes parameters one per line.
type Sink struct {
	w io.Writer
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write emits params in order.
func (s *Sink) Write(params []Param) error {
	bw := bufio.NewWriter(s.w)
	for _, p := range params {
		if _, err := bw.WriteString(p.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
