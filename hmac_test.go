// hmac_test.go: HMAC known-answer and verification tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/agilira/cryptocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 4231 test cases 1, 2 and 6. Case 6 uses a 131 byte key, longer than the
// SHA-256 block, so the key is hashed first.
func TestHMAC_RFC4231(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		msg  []byte
		want string
	}{
		{
			"case 1 short key",
			bytes.Repeat([]byte{0x0b}, 20),
			[]byte("Hi There"),
			"b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7",
		},
		{
			"case 2 text key",
			[]byte("Jefe"),
			[]byte("what do ya want for nothing?"),
			"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
		{
			"case 6 key longer than block",
			bytes.Repeat([]byte{0xaa}, 131),
			[]byte("Test Using Larger Than Block-Size Key - Hash Key First"),
			"60e431591ee0b67f0d8a26aacbf5b77f8e0bc6213728c5140546040f0ee37f54",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := crypto.MAC(crypto.NewSHA256, tt.key, tt.msg)
			assert.Equal(t, tt.want, hex.EncodeToString(tag))
			assert.True(t, crypto.VerifyMAC(crypto.NewSHA256, tt.key, tt.msg, mustHex(t, tt.want)))
		})
	}
}

func TestHMAC_MatchesStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, keyLen := range []int{0, 1, 32, 63, 64, 65, 128, 200} {
		key := make([]byte, keyLen)
		rng.Read(key)
		msg := make([]byte, 100+keyLen)
		rng.Read(msg)

		ref := hmac.New(sha256.New, key)
		ref.Write(msg)
		assert.Equal(t, ref.Sum(nil), crypto.MAC(crypto.NewSHA256, key, msg), "sha256 key=%d", keyLen)

		ref = hmac.New(sha512.New, key)
		ref.Write(msg)
		assert.Equal(t, ref.Sum(nil), crypto.MAC(crypto.NewSHA512, key, msg), "sha512 key=%d", keyLen)

		// Stdlib hash constructors work as well.
		assert.Equal(t, ref.Sum(nil), crypto.MAC(sha512.New, key, msg))
	}
}

func TestHMAC_Incremental(t *testing.T) {
	key := []byte("key")
	m := crypto.NewHMAC(crypto.NewSHA256, key)
	assert.Equal(t, 32, m.Size())
	assert.Equal(t, 64, m.BlockSize())

	m.Write([]byte("The quick brown fox "))
	m.Write([]byte("jumps over the lazy dog"))
	tag := m.Sum(nil)
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", hex.EncodeToString(tag))

	// Sum leaves the state alone and Reset restarts under the same key.
	assert.Equal(t, tag, m.Sum(nil))
	m.Reset()
	m.Write([]byte("The quick brown fox jumps over the lazy dog"))
	assert.Equal(t, tag, m.Sum(nil))
}

func TestHMAC_Verify(t *testing.T) {
	key := []byte("verification key")
	msg := []byte("message")
	tag := crypto.MAC(crypto.NewSHA256, key, msg)

	m := crypto.NewHMAC(crypto.NewSHA256, key)
	m.Write(msg)
	require.True(t, m.Verify(tag))

	for i := range tag {
		bad := bytes.Clone(tag)
		bad[i] ^= 0x80
		assert.False(t, m.Verify(bad), "flipped byte %d", i)
	}
	assert.False(t, m.Verify(tag[:31]), "truncated tag")
	assert.False(t, m.Verify(nil))
	assert.False(t, crypto.VerifyMAC(crypto.NewSHA256, []byte("other key"), msg, tag))
}
