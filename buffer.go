// buffer.go: Buffered block processor shared by digests, MACs and cipher modes.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"fmt"
	"math"

	goerrors "github.com/agilira/go-errors"
)

// BlockBuffer accumulates an arbitrarily chunked byte stream and hands it to a
// fixed-size block transform exactly once per full block, in arrival order.
//
// The pending partial block is always shorter than the block size after Input
// returns. Count reports the total bytes accepted, which digests use for their
// length suffix; Input refuses data that would push Count past the limit given
// to NewBlockBuffer instead of wrapping.
//
// A BlockBuffer is owned by a single driver and is not safe for concurrent use.
type BlockBuffer struct {
	buf   []byte
	n     int
	count uint64
	limit uint64
}

// NewBlockBuffer returns a processor for blocks of size bytes that accepts at
// most limit bytes in total. A limit of 0 means no limit beyond 2^64-1.
func NewBlockBuffer(size int, limit uint64) *BlockBuffer {
	if size <= 0 {
		panic("crypto: block size must be positive")
	}
	if limit == 0 {
		limit = math.MaxUint64
	}
	return &BlockBuffer{buf: make([]byte, size), limit: limit}
}

// BlockSize returns the block size in bytes.
func (b *BlockBuffer) BlockSize() int { return len(b.buf) }

// Input appends p to the stream. fn is called once for each block that becomes
// complete; the slice passed to fn is only valid for the duration of the call.
// Zero-length input is accepted and does nothing.
func (b *BlockBuffer) Input(p []byte, fn func(block []byte)) error {
	if uint64(len(p)) > b.limit-b.count {
		richErr := goerrors.New(ErrCodeLengthLimit, fmt.Sprintf("input would exceed the %d byte limit", b.limit))
		return withSentinel(ErrLengthLimit, richErr)
	}
	b.count += uint64(len(p))

	size := len(b.buf)

	// Top up a partially filled block first.
	if b.n > 0 {
		k := copy(b.buf[b.n:], p)
		b.n += k
		p = p[k:]
		if b.n < size {
			return nil
		}
		fn(b.buf)
		b.n = 0
	}

	// Whole blocks are processed straight from the input without copying.
	for len(p) >= size {
		fn(p[:size])
		p = p[size:]
	}

	b.n = copy(b.buf, p)
	return nil
}

// InputHoldLast is Input for drivers that must keep the final full block back
// until they know the stream has ended (CMAC, padded decryption). After it
// returns the buffer holds between 1 and size bytes whenever any input has been
// seen, so the last block is never handed to fn early.
func (b *BlockBuffer) InputHoldLast(p []byte, fn func(block []byte)) error {
	if uint64(len(p)) > b.limit-b.count {
		richErr := goerrors.New(ErrCodeLengthLimit, fmt.Sprintf("input would exceed the %d byte limit", b.limit))
		return withSentinel(ErrLengthLimit, richErr)
	}
	b.count += uint64(len(p))

	size := len(b.buf)
	for len(p) > 0 {
		if b.n == size {
			fn(b.buf)
			b.n = 0
		}
		if b.n == 0 {
			for len(p) > size {
				fn(p[:size])
				p = p[size:]
			}
		}
		k := copy(b.buf[b.n:], p)
		b.n += k
		p = p[k:]
	}
	return nil
}

// Pending returns the buffered bytes that have not yet formed a processed
// block. The slice aliases internal storage.
func (b *BlockBuffer) Pending() []byte { return b.buf[:b.n] }

// Len returns the number of pending bytes.
func (b *BlockBuffer) Len() int { return b.n }

// Count returns the total number of bytes accepted since the last Reset.
func (b *BlockBuffer) Count() uint64 { return b.count }

// Reset forgets pending data and the byte count, wiping the buffer.
func (b *BlockBuffer) Reset() {
	SecureZero(b.buf)
	b.n = 0
	b.count = 0
}
