// digest_test.go: SHA-1, SHA-256 and SHA-512 tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"crypto/sha1" // #nosec G505 -- reference implementation for tests
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"math/rand"
	"strings"
	"testing"

	"github.com/agilira/cryptocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digestCases = []struct {
	name      string
	ours      func() hash.Hash
	ref       func() hash.Hash
	size      int
	blockSize int
}{
	{"SHA-1", crypto.NewSHA1, sha1.New, crypto.SHA1Size, crypto.SHA1BlockSize},
	{"SHA-256", crypto.NewSHA256, sha256.New, crypto.SHA256Size, crypto.SHA256BlockSize},
	{"SHA-512", crypto.NewSHA512, sha512.New, crypto.SHA512Size, crypto.SHA512BlockSize},
}

func TestDigest_KnownAnswer(t *testing.T) {
	abc := []byte("abc")
	s1 := crypto.Sum1(abc)
	s256 := crypto.Sum256(abc)
	s512 := crypto.Sum512(abc)

	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(s1[:]))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(s256[:]))
	assert.Equal(t, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a"+
		"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f", hex.EncodeToString(s512[:]))

	empty := crypto.Sum256(nil)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(empty[:]))
}

func TestDigest_MillionA(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long message in short mode")
	}
	h := crypto.NewSHA1()
	chunk := []byte(strings.Repeat("a", 1000))
	for i := 0; i < 1000; i++ {
		_, err := h.Write(chunk)
		require.NoError(t, err)
	}
	assert.Equal(t, "34aa973cd4c4daa4f61eeb2bdbad27316534016f", hex.EncodeToString(h.Sum(nil)))
}

func TestDigest_MatchesStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, dc := range digestCases {
		t.Run(dc.name, func(t *testing.T) {
			h := dc.ours()
			assert.Equal(t, dc.size, h.Size())
			assert.Equal(t, dc.blockSize, h.BlockSize())

			// Lengths around every padding boundary.
			for n := 0; n <= 3*dc.blockSize; n++ {
				msg := make([]byte, n)
				rng.Read(msg)

				ref := dc.ref()
				ref.Write(msg)
				h.Reset()
				_, err := h.Write(msg)
				require.NoError(t, err)
				require.Equal(t, ref.Sum(nil), h.Sum(nil), "n=%d", n)
			}
		})
	}
}

func TestDigest_ChunkInvariance(t *testing.T) {
	msg := []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20))
	for _, dc := range digestCases {
		whole := dc.ours()
		whole.Write(msg)
		want := whole.Sum(nil)

		for _, chunk := range []int{1, 3, 63, 64, 65, 127, 128, 129} {
			h := dc.ours()
			for p := msg; len(p) > 0; {
				n := min(chunk, len(p))
				h.Write(p[:n])
				p = p[n:]
			}
			assert.Equal(t, want, h.Sum(nil), "%s chunk %d", dc.name, chunk)
		}
	}
}

func TestDigest_SumDoesNotChangeState(t *testing.T) {
	for _, dc := range digestCases {
		h := dc.ours()
		h.Write([]byte("first part"))
		mid := h.Sum(nil)
		assert.Equal(t, mid, h.Sum(nil), "%s: Sum must be repeatable", dc.name)

		h.Write([]byte(" second part"))
		ref := dc.ref()
		ref.Write([]byte("first part second part"))
		assert.Equal(t, ref.Sum(nil), h.Sum(nil), "%s: writes after Sum", dc.name)

		// Sum appends to its argument.
		prefixed := h.Sum([]byte("prefix"))
		assert.Equal(t, "prefix", string(prefixed[:6]))
		assert.Len(t, prefixed, 6+dc.size)
	}
}

func TestDigest_Reset(t *testing.T) {
	h := crypto.NewSHA256()
	h.Write([]byte("garbage"))
	h.Reset()
	h.Write([]byte("abc"))
	want := crypto.Sum256([]byte("abc"))
	assert.Equal(t, want[:], h.Sum(nil))
}

func BenchmarkSHA256(b *testing.B) {
	msg := make([]byte, 8192)
	b.SetBytes(int64(len(msg)))
	for i := 0; i < b.N; i++ {
		crypto.Sum256(msg)
	}
}
