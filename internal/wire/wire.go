// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package wire frames a Codeword for storage: a 4-byte little-endian block
// length followed by the raw block bytes back to back, no trailer. The
// block count is recovered from the file length on read, not stored.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a stream ends before a full header or a
// full final block has been read.
var ErrTruncated = errors.New("wire: truncated codeword stream")

// Write emits the header followed by every block of blocks, each of which
// must be delta bytes long.
func Write(w io.Writer, delta int, blocks [][]byte) error {
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(delta))
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "wire: writing header")
	}
	for i, b := range blocks {
		if len(b) != delta {
			return errors.Errorf("wire: block %d has %d bytes, want %d", i, len(b), delta)
		}
		if _, err := w.Write(b); err != nil {
			return errors.Wrapf(err, "wire: writing block %d", i)
		}
	}
	return nil
}

// Read parses a full codeword stream, recovering the block count from the
// total length of the remaining bytes after the header.
func Read(r io.Reader) (delta int, blocks [][]byte, err error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, errors.Wrap(ErrTruncated, "reading header")
	}
	delta = int(binary.LittleEndian.Uint32(header[:]))
	if delta <= 0 {
		return 0, nil, errors.Errorf("wire: invalid block length %d in header", delta)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return 0, nil, errors.Wrap(err, "wire: reading body")
	}
	if len(rest)%delta != 0 {
		return 0, nil, errors.Wrapf(ErrTruncated, "body length %d is not a multiple of delta=%d", len(rest), delta)
	}

	n := len(rest) / delta
	blocks = make([][]byte, n)
	for i := 0; i < n; i++ {
		blocks[i] = rest[i*delta : (i+1)*delta]
	}
	return delta, blocks, nil
}
