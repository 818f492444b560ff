package ws

import (
	"bytes"
	"compress/zlib"
	"io"
)

// Compress deflates a payload before it goes on the wire.
func Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress inflates a payload received from the wire. Garbage input is
// reported as an error, not a panic.
func Decompress(payload []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
