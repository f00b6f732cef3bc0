// cmac.go: CMAC (RFC 4493, NIST SP 800-38B) over 64 and 128-bit block ciphers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/cipher"
	"crypto/subtle"
	"hash"
)

// CMAC is a block-cipher based MAC. The last message block is held back until
// Sum so it can be combined with the right subkey: K1 for a complete block,
// K2 for a padded partial one.
//
// CMAC implements hash.Hash; Size and BlockSize both equal the cipher block
// size.
type CMAC struct {
	block  cipher.Block
	k1, k2 []byte
	x      []byte
	buf    *BlockBuffer
	absorb func([]byte)
}

var _ hash.Hash = (*CMAC)(nil)

// NewCMAC returns a CMAC over b, which must have an 8 or 16 byte block.
func NewCMAC(b cipher.Block) (*CMAC, error) {
	bs := b.BlockSize()
	var rb byte
	switch bs {
	case 16:
		rb = 0x87
	case 8:
		rb = 0x1b
	default:
		return nil, invalidParameter("CMAC needs a 64 or 128-bit block cipher (got %d byte blocks)", bs)
	}

	c := &CMAC{
		block: b,
		k1:    make([]byte, bs),
		k2:    make([]byte, bs),
		x:     make([]byte, bs),
		buf:   NewBlockBuffer(bs, 0),
	}
	c.absorb = func(p []byte) {
		subtle.XORBytes(c.x, c.x, p)
		c.block.Encrypt(c.x, c.x)
	}

	l := make([]byte, bs)
	b.Encrypt(l, l)
	cmacDouble(c.k1, l, rb)
	cmacDouble(c.k2, c.k1, rb)
	SecureZero(l)
	return c, nil
}

// cmacDouble sets dst to src times x in GF(2^n) without branching on src.
func cmacDouble(dst, src []byte, rb byte) {
	msb := src[0] >> 7
	var carry byte
	for i := len(src) - 1; i >= 0; i-- {
		b := src[i]
		dst[i] = b<<1 | carry
		carry = b >> 7
	}
	dst[len(dst)-1] ^= rb & -msb
}

// Write absorbs message bytes.
func (c *CMAC) Write(p []byte) (int, error) {
	if err := c.buf.InputHoldLast(p, c.absorb); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sum appends the tag for the data written so far to in. It does not change
// the running state.
func (c *CMAC) Sum(in []byte) []byte {
	bs := len(c.x)
	last := make([]byte, bs)
	pending := c.buf.Pending()
	copy(last, pending)
	if len(pending) == bs {
		subtle.XORBytes(last, last, c.k1)
	} else {
		last[len(pending)] = 0x80
		subtle.XORBytes(last, last, c.k2)
	}
	subtle.XORBytes(last, last, c.x)
	c.block.Encrypt(last, last)

	in = append(in, last...)
	SecureZero(last)
	return in
}

// Reset starts a new message under the same key.
func (c *CMAC) Reset() {
	SecureZero(c.x)
	c.buf.Reset()
}

// Size returns the tag length in bytes.
func (c *CMAC) Size() int { return len(c.x) }

// BlockSize returns the cipher block size.
func (c *CMAC) BlockSize() int { return len(c.x) }

// Verify reports, in fixed time, whether tag is the tag of the data written so far.
func (c *CMAC) Verify(tag []byte) bool {
	computed := c.Sum(nil)
	ok := FixedTimeEquals(computed, tag)
	SecureZero(computed)
	return ok
}

// Destroy wipes the subkeys and running state.
func (c *CMAC) Destroy() {
	SecureZeroMultiple(c.k1, c.k2, c.x)
	c.buf.Reset()
}
