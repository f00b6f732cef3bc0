// pbkdf2.go: PBKDF2 (RFC 8018) over the package HMAC.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"encoding/binary"
	"hash"
)

// PBKDF2 derives dkLen bytes from password and salt with HMAC over prf.
//
// Output block i (counting from 1) is U1 ^ U2 ^ ... ^ Uc where
// U1 = HMAC(password, salt || BE32(i)) and Uj = HMAC(password, Uj-1). The
// blocks are concatenated and truncated to dkLen.
//
// Parameters:
//   - prf: hash constructor, e.g. NewSHA256 or NewSHA1
//   - iterations: c, must be at least 1
//   - dkLen: output length; 0 yields an empty key, more than
//     (2^32-1) * hash size is rejected
//
// Example:
//
//	key, err := crypto.PBKDF2(crypto.NewSHA256, password, salt, 600000, 32)
//	if err != nil {
//		return err
//	}
//	defer crypto.SecureZero(key)
//
// For new password hashing prefer Scrypt or DeriveKey (Argon2id); PBKDF2 is
// not memory-hard.
func PBKDF2(prf func() hash.Hash, password, salt []byte, iterations, dkLen int) ([]byte, error) {
	if prf == nil {
		return nil, invalidParameter("PBKDF2 needs a hash function")
	}
	if iterations <= 0 {
		return nil, invalidParameter("PBKDF2 iteration count must be positive (got %d)", iterations)
	}
	if dkLen < 0 {
		return nil, invalidParameter("derived key length must not be negative (got %d)", dkLen)
	}

	mac := NewHMAC(prf, password)
	defer mac.Destroy()

	hLen := mac.Size()
	if uint64(dkLen) > (1<<32-1)*uint64(hLen) {
		return nil, invalidParameter("derived key length %d exceeds the PBKDF2 maximum of (2^32-1)*%d", dkLen, hLen)
	}
	numBlocks := (dkLen + hLen - 1) / hLen

	u := getBuffer(hLen)
	defer putBuffer(u)

	var idx [4]byte
	dk := make([]byte, 0, numBlocks*hLen)
	for block := 1; block <= numBlocks; block++ {
		mac.Reset()
		_, _ = mac.Write(salt)
		binary.BigEndian.PutUint32(idx[:], uint32(block)) // #nosec G115 -- bounded by the length check above
		_, _ = mac.Write(idx[:])
		dk = mac.Sum(dk)
		t := dk[len(dk)-hLen:]
		copy(*u, t)

		for n := 2; n <= iterations; n++ {
			mac.Reset()
			_, _ = mac.Write(*u)
			*u = mac.Sum((*u)[:0])
			for x := range t {
				t[x] ^= (*u)[x]
			}
		}
	}

	if len(dk) > dkLen {
		SecureZero(dk[dkLen:])
	}
	return dk[:dkLen], nil
}
