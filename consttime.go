// consttime.go: Fixed-time comparison and secure erasure of sensitive buffers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/subtle"
	"runtime"
)

// FixedTimeEquals reports whether a and b hold the same bytes.
//
// Lengths are treated as public: buffers of different length return false
// immediately. For equal lengths every byte pair is visited and the XOR
// differences are OR-ed into a single accumulator, so the running time does
// not depend on where (or whether) the buffers differ.
//
// Example:
//
//	if !crypto.FixedTimeEquals(computedTag, receivedTag) {
//		return errors.New("tag mismatch")
//	}
//
// Always use this function, never bytes.Equal, to compare MAC tags or any other
// value derived from secret material.
func FixedTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return fixedTimeDiff(a, b) == 0
}

// fixedTimeDiff must stay a plain loop without early exits. It is kept out of
// line so the accumulator cannot be folded into a branch at the call site.
//
//go:noinline
func fixedTimeDiff(a, b []byte) byte {
	var acc byte
	b = b[:len(a)]
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc
}

// SecureZero overwrites every byte of b with zero.
//
// The write goes through a non-inlined function and the slice is kept alive
// afterwards, so the compiler cannot prove the stores dead and elide them even
// when b is never read again. Use it on every buffer that held key material,
// plaintext or KDF scratch space.
//
// Example:
//
//	key := deriveSomething()
//	defer crypto.SecureZero(key)
func SecureZero(b []byte) {
	if len(b) == 0 {
		return
	}
	wipe(b)
	runtime.KeepAlive(b)
}

//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SecureZeroMultiple zeros several buffers in a single call.
func SecureZeroMultiple(bufs ...[]byte) {
	for _, b := range bufs {
		SecureZero(b)
	}
}

// ctLess returns 1 if x < y and 0 otherwise, for 0 <= x, y < 2^31.
func ctLess(x, y int) int {
	return 1 - subtle.ConstantTimeLessOrEq(y, x)
}
