package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// MaxInflated caps the decompressed size of a single payload.
const MaxInflated = 200000

// rootHeader is the type byte plus empty-name length that precedes the root
// compound's children in every decompressed payload.
const rootHeader = 3

// Inflate decompresses a gzip stream, failing with ErrTooLarge when the
// output would exceed limit bytes.
func Inflate(data []byte, limit int) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("nbt: gzip header: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("nbt: inflate: %w", err)
	}
	if len(out) > limit {
		return nil, ErrTooLarge
	}
	return out, nil
}

// DecodeGzip inflates a container payload and parses the root compound,
// skipping the root's type byte and name length.
func DecodeGzip(data []byte) (Compound, error) {
	raw, err := Inflate(data, MaxInflated)
	if err != nil {
		return nil, err
	}
	if len(raw) < rootHeader {
		return nil, fmt.Errorf("%w: %d bytes after inflate", ErrTruncated, len(raw))
	}
	root, _, err := ReadCompound(raw[rootHeader:])
	if err != nil {
		return nil, err
	}
	return root, nil
}

// EncodeGzip writes root with an empty name and gzips the result. It is the
// inverse of DecodeGzip.
func EncodeGzip(root Compound) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := Write(zw, "", root); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
