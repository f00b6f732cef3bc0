// ctr.go: Counter mode keystream driver.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/cipher"
	"crypto/subtle"
)

// CTR turns a block cipher into a stream cipher. The keystream is the
// encryption of successive counter blocks starting at the IV; the counter is
// treated as one big-endian integer and wraps around at the full block width.
//
// Encryption and decryption are the same operation. Output length always equals
// input length and no padding is involved. Keystream bytes left over from one
// Update are used by the next, so the result is independent of how the input
// is chunked.
//
// A given key and IV pair must never be used for two different messages.
type CTR struct {
	block    cipher.Block
	ctr      []byte
	ks       []byte
	used     int
	finished bool
}

// NewCTR returns a counter-mode driver. iv must be one block long.
func NewCTR(b cipher.Block, iv []byte) (*CTR, error) {
	if err := checkIV(b, iv); err != nil {
		return nil, err
	}
	bs := b.BlockSize()
	return &CTR{
		block: b,
		ctr:   append([]byte(nil), iv...),
		ks:    make([]byte, bs),
		used:  bs,
	}, nil
}

// BlockSize returns the block size of the underlying cipher.
func (c *CTR) BlockSize() int { return len(c.ks) }

// Update XORs src with the keystream and appends the result to dst.
func (c *CTR) Update(dst, src []byte) ([]byte, error) {
	if c.finished {
		return dst, errFinished
	}
	head, out := sliceForAppend(dst, len(src))
	for len(src) > 0 {
		if c.used == len(c.ks) {
			c.refill()
		}
		n := subtle.XORBytes(out, src, c.ks[c.used:])
		c.used += n
		src = src[n:]
		out = out[n:]
	}
	return head, nil
}

// Finish discards the unused keystream and counter. CTR has no final block, so
// nothing is appended to dst.
func (c *CTR) Finish(dst []byte) ([]byte, error) {
	if c.finished {
		return dst, errFinished
	}
	SecureZeroMultiple(c.ks, c.ctr)
	c.used = len(c.ks)
	c.finished = true
	return dst, nil
}

func (c *CTR) refill() {
	c.block.Encrypt(c.ks, c.ctr)
	c.used = 0
	for i := len(c.ctr) - 1; i >= 0; i-- {
		c.ctr[i]++
		if c.ctr[i] != 0 {
			break
		}
	}
}

// XORKeyStreamCTR encrypts or decrypts src in counter mode in one call.
func XORKeyStreamCTR(b cipher.Block, iv, src []byte) ([]byte, error) {
	c, err := NewCTR(b, iv)
	if err != nil {
		return nil, err
	}
	return Process(c, src)
}
