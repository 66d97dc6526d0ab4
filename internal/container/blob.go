// Package container implements the byte level envelopes around level records and
// save files: gzip plus URL-safe base64 for level data, XOR or AES-ECB for the
// save file, and the abbreviated plist XML the save is written in.
package container

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// gzipHeader replaces the first 13 base64 characters of a blob before decoding.
// They only cover the gzip magic, flags, mtime and part of the OS byte, which the
// game does not always write consistently.
const gzipHeader = "H4sIAAAAAAAAA"

// Compress gzips data and encodes it as URL-safe base64.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	// A zero mtime and OS "NTFS" encode as the game's H4sIAAAAAAAAC prefix.
	zw.ModTime = time.Unix(0, 0)
	zw.OS = 11
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	out := make([]byte, base64.URLEncoding.EncodedLen(buf.Len()))
	base64.URLEncoding.Encode(out, buf.Bytes())
	return out, nil
}

// Decompress reverses Compress. Padding is optional and the gzip header is
// normalized first.
func Decompress(data []byte) ([]byte, error) {
	data = bytes.TrimRight(bytes.TrimSpace(data), "=\x00")
	if len(data) < len(gzipHeader) {
		return nil, fmt.Errorf("decompress: blob too short (%d bytes)", len(data))
	}
	b64 := append([]byte(gzipHeader), data[len(gzipHeader):]...)
	raw := make([]byte, base64.RawURLEncoding.DecodedLen(len(b64)))
	n, err := base64.RawURLEncoding.Decode(raw, b64)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw[:n]))
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	defer zr.Close()
	// Truncated trailers are common in shared levels; keep what inflated.
	out, err := io.ReadAll(zr)
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && len(out) > 0) {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}
