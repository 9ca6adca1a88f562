package compression

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Threshold is the size below which data is stored as-is
const Threshold = 1024 // 1KB

// Compress gzips data when it is at least Threshold bytes long.
// The boolean reports whether the returned bytes are compressed.
func Compress(data []byte) ([]byte, bool, error) {
	if len(data) < Threshold {
		return data, false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, false, err
	}
	if err := zw.Close(); err != nil {
		return nil, false, err
	}

	// not worth it
	if buf.Len() >= len(data) {
		return data, false, nil
	}
	return buf.Bytes(), true, nil
}

// Decompress reverses Compress
func Decompress(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
