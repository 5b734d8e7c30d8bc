package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Frame is one complete block off the wire. Data is the raw payload; it
// is not validated here.
type Frame struct {
	Event string
	Data  []byte
}

// Decoder buffers until a blank line closes a block, so frames split
// across reads come out whole.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next frame. It returns io.EOF at a clean end of stream
// and io.ErrUnexpectedEOF when the stream stops inside a block.
func (d *Decoder) Next() (Frame, error) {
	var (
		frame   Frame
		data    [][]byte
		started bool
	)
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Frame{}, err
			}
			if started || len(bytes.TrimSpace(line)) > 0 {
				return Frame{}, io.ErrUnexpectedEOF
			}
			return Frame{}, io.EOF
		}
		line = bytes.TrimRight(line, "\r\n")

		if len(line) == 0 {
			if !started {
				continue
			}
			if frame.Event == "" {
				frame.Event = "message"
			}
			frame.Data = bytes.Join(data, []byte("\n"))
			return frame, nil
		}
		if line[0] == ':' {
			continue
		}

		field, value := line, []byte(nil)
		if i := bytes.IndexByte(line, ':'); i >= 0 {
			field, value = line[:i], line[i+1:]
			value = bytes.TrimPrefix(value, []byte(" "))
		}
		switch string(field) {
		case "event":
			frame.Event = string(value)
			started = true
		case "data":
			data = append(data, append([]byte(nil), value...))
			started = true
		}
	}
}
