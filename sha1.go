// sha1.go: SHA-1 compression function (FIPS 180-4).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

const (
	// SHA1Size is the size of a SHA-1 digest in bytes.
	SHA1Size = 20
	// SHA1BlockSize is the SHA-1 block size in bytes.
	SHA1BlockSize = 64
)

var sha1Algorithm = &mdAlgorithm[[5]uint32]{
	size:      SHA1Size,
	blockSize: SHA1BlockSize,
	lenBytes:  8,
	limit:     1<<61 - 1,
	init: func(s *[5]uint32) {
		*s = [5]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0}
	},
	compress: sha1Block,
	output: func(s *[5]uint32, out []byte) {
		for i, v := range s {
			binary.BigEndian.PutUint32(out[4*i:], v)
		}
	},
}

// NewSHA1 returns a SHA-1 hash.Hash.
//
// SHA-1 is broken for collision resistance. It is provided for HMAC, PBKDF2
// and interoperability with existing formats.
func NewSHA1() hash.Hash { return newMDDigest(sha1Algorithm) }

// Sum1 returns the SHA-1 digest of data.
func Sum1(data []byte) [SHA1Size]byte {
	var out [SHA1Size]byte
	d := newMDDigest(sha1Algorithm)
	_, _ = d.Write(data)
	d.Sum(out[:0])
	return out
}

func sha1Block(s *[5]uint32, p []byte) {
	var w [16]uint32
	for i := range w {
		w[i] = binary.BigEndian.Uint32(p[4*i:])
	}

	a, b, c, d, e := s[0], s[1], s[2], s[3], s[4]
	for i := 0; i < 80; i++ {
		if i >= 16 {
			x := w[(i-3)&0xf] ^ w[(i-8)&0xf] ^ w[(i-14)&0xf] ^ w[i&0xf]
			w[i&0xf] = bits.RotateLeft32(x, 1)
		}

		var f, k uint32
		switch {
		case i < 20:
			f, k = b&c|^b&d, 0x5A827999
		case i < 40:
			f, k = b^c^d, 0x6ED9EBA1
		case i < 60:
			f, k = (b|c)&d|b&c, 0x8F1BBCDC
		default:
			f, k = b^c^d, 0xCA62C1D6
		}

		t := bits.RotateLeft32(a, 5) + f + e + w[i&0xf] + k
		a, b, c, d, e = t, a, bits.RotateLeft32(b, 30), c, d
	}

	s[0] += a
	s[1] += b
	s[2] += c
	s[3] += d
	s[4] += e
}
