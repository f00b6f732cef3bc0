// digest.go: Merkle-Damgård digest driver shared by the SHA family.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"encoding/binary"
	"hash"
)

// mdAlgorithm describes one Merkle-Damgård hash: its constants, the
// compression function over state S and how the final state is serialized.
type mdAlgorithm[S any] struct {
	size      int
	blockSize int
	// lenBytes is the width of the trailing big-endian bit-length field.
	lenBytes int
	// limit is the largest message, in bytes, whose bit length fits the field.
	limit uint64

	init     func(s *S)
	compress func(s *S, block []byte)
	output   func(s *S, out []byte)
}

// mdDigest drives an mdAlgorithm through a BlockBuffer and implements
// hash.Hash. Sum works on copies, so a digest can keep absorbing data after a
// Sum call.
type mdDigest[S any] struct {
	alg   *mdAlgorithm[S]
	state S
	buf   *BlockBuffer
	block func([]byte)
}

var _ hash.Hash = (*mdDigest[[8]uint32])(nil)

func newMDDigest[S any](alg *mdAlgorithm[S]) *mdDigest[S] {
	d := &mdDigest[S]{
		alg: alg,
		buf: NewBlockBuffer(alg.blockSize, alg.limit),
	}
	d.block = func(p []byte) { d.alg.compress(&d.state, p) }
	alg.init(&d.state)
	return d
}

// Size returns the digest length in bytes.
func (d *mdDigest[S]) Size() int { return d.alg.size }

// BlockSize returns the compression block size in bytes.
func (d *mdDigest[S]) BlockSize() int { return d.alg.blockSize }

// Reset restores the initial state and wipes pending input.
func (d *mdDigest[S]) Reset() {
	d.buf.Reset()
	d.alg.init(&d.state)
}

// Write absorbs p. Unlike most hash.Hash implementations it can fail: once the
// total length would no longer fit the length suffix it returns ErrLengthLimit
// and absorbs nothing.
func (d *mdDigest[S]) Write(p []byte) (int, error) {
	if err := d.buf.Input(p, d.block); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sum appends the digest of the data written so far to in.
func (d *mdDigest[S]) Sum(in []byte) []byte {
	state := d.state
	bs := d.alg.blockSize

	tail := make([]byte, 0, 2*bs)
	tail = append(tail, d.buf.Pending()...)
	tail = append(tail, 0x80)
	for len(tail)%bs != bs-d.alg.lenBytes {
		tail = append(tail, 0)
	}
	bits := d.buf.Count() << 3
	if d.alg.lenBytes == 16 {
		tail = binary.BigEndian.AppendUint64(tail, d.buf.Count()>>61)
	}
	tail = binary.BigEndian.AppendUint64(tail, bits)

	for i := 0; i < len(tail); i += bs {
		d.alg.compress(&state, tail[i:i+bs])
	}
	SecureZero(tail)

	in, out := sliceForAppend(in, d.alg.size)
	d.alg.output(&state, out)
	return in
}
