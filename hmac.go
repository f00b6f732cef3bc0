// hmac.go: HMAC (RFC 2104) over any hash.Hash constructor.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import "hash"

// HMAC computes digest(opad || digest(ipad || message)), where the pads are
// the key XORed with 0x5c and 0x36. Keys longer than the hash block size are
// hashed first; shorter keys are zero-extended.
//
// HMAC implements hash.Hash. Tags received from elsewhere must be checked with
// Verify, never with bytes.Equal.
type HMAC struct {
	opad, ipad   []byte
	inner, outer hash.Hash
}

var _ hash.Hash = (*HMAC)(nil)

// NewHMAC returns an HMAC keyed with key over the hash returned by h. It
// accepts both this package's constructors (NewSHA256, ...) and the standard
// library ones.
func NewHMAC(h func() hash.Hash, key []byte) *HMAC {
	m := &HMAC{inner: h(), outer: h()}
	bs := m.inner.BlockSize()
	m.ipad = make([]byte, bs)
	m.opad = make([]byte, bs)

	if len(key) > bs {
		_, _ = m.outer.Write(key)
		hashed := m.outer.Sum(nil)
		m.outer.Reset()
		copy(m.ipad, hashed)
		copy(m.opad, hashed)
		SecureZero(hashed)
	} else {
		copy(m.ipad, key)
		copy(m.opad, key)
	}
	for i := range m.ipad {
		m.ipad[i] ^= 0x36
		m.opad[i] ^= 0x5c
	}

	_, _ = m.inner.Write(m.ipad)
	return m
}

// Write absorbs message bytes.
func (m *HMAC) Write(p []byte) (int, error) { return m.inner.Write(p) }

// Sum appends the tag for the data written so far to in. It does not change
// the running state.
func (m *HMAC) Sum(in []byte) []byte {
	origLen := len(in)
	in = m.inner.Sum(in)
	m.outer.Reset()
	_, _ = m.outer.Write(m.opad)
	_, _ = m.outer.Write(in[origLen:])
	return m.outer.Sum(in[:origLen])
}

// Reset starts a new message under the same key.
func (m *HMAC) Reset() {
	m.inner.Reset()
	_, _ = m.inner.Write(m.ipad)
}

// Size returns the tag length in bytes.
func (m *HMAC) Size() int { return m.outer.Size() }

// BlockSize returns the block size of the underlying hash.
func (m *HMAC) BlockSize() int { return m.inner.BlockSize() }

// Verify reports whether tag is the tag of the data written so far. The
// comparison runs in fixed time and only a bool is reported.
func (m *HMAC) Verify(tag []byte) bool {
	computed := m.Sum(nil)
	ok := FixedTimeEquals(computed, tag)
	SecureZero(computed)
	return ok
}

// Destroy wipes the key-derived pads. The HMAC must not be used afterwards.
func (m *HMAC) Destroy() {
	SecureZeroMultiple(m.ipad, m.opad)
	m.inner.Reset()
	m.outer.Reset()
}

// MAC returns the HMAC tag of msg under key.
func MAC(h func() hash.Hash, key, msg []byte) []byte {
	m := NewHMAC(h, key)
	defer m.Destroy()
	_, _ = m.Write(msg)
	return m.Sum(nil)
}

// VerifyMAC reports, in fixed time, whether tag authenticates msg under key.
func VerifyMAC(h func() hash.Hash, key, msg, tag []byte) bool {
	m := NewHMAC(h, key)
	defer m.Destroy()
	_, _ = m.Write(msg)
	return m.Verify(tag)
}
