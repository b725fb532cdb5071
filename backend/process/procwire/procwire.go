// Package procwire implements the length-prefixed gob encoding the PROCESS
// backend uses to move a request and its response across a pipe to a
// worker process (spec.md §9: "the serialization boundary ... must be made
// explicit").
package procwire

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// Request is one call sent to a worker process: the name a handler was
// registered under (see process.RegisterWorkerFunc) and its payload. Go has
// no way to serialize a function value, so unlike the source's implicit
// pickling, the handler itself never crosses the pipe — only its name does.
type Request struct {
	Name    string
	Payload interface{}
}

// Response is one call's result sent back from a worker process. Err is a
// plain string (not an error) because gob cannot decode the error
// interface without a concrete registered type.
type Response struct {
	Result interface{}
	Err    string
}

// WriteFrame gob-encodes v and writes it to w as a 4-byte big-endian
// length prefix followed by the encoded bytes.
func WriteFrame(w io.Writer, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("procwire: encode frame: %w", err)
	}
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(buf.Len()))
	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("procwire: write frame length: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("procwire: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed gob frame from r into v.
func ReadFrame(r io.Reader, v interface{}) error {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(length[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("procwire: read frame body: %w", err)
	}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("procwire: decode frame: %w", err)
	}
	return nil
}
