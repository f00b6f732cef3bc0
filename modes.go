// modes.go: ECB and CBC drivers composed from a block primitive, chaining
// state, the buffered block processor and a padding policy.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/cipher"
	"crypto/subtle"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Crypter is a streaming encryption or decryption transform.
//
// Update may be called any number of times with chunks of any size, including
// empty ones; it appends whatever output is ready to dst. Finish flushes the
// final block(s), applying or checking padding where the mode uses it, and
// leaves the Crypter unusable. dst must not overlap src.
type Crypter interface {
	BlockSize() int
	Update(dst, src []byte) ([]byte, error)
	Finish(dst []byte) ([]byte, error)
}

// ModeDriver runs ECB or CBC over any cipher.Block.
//
// The driver owns its chaining state and pending-block buffer; it must not be
// used from two goroutines at once. Several drivers may share one
// cipher.Block, since the block only carries its key schedule.
type ModeDriver struct {
	mode     string
	block    cipher.Block
	buf      *BlockBuffer
	padding  Padding
	decrypt  bool
	holdLast bool

	// chain is the previous ciphertext block for CBC and nil for ECB. It is
	// advanced exactly once per processed block.
	chain []byte
	tmp   []byte

	transform func(dst, src []byte)
	out       []byte
	finished  bool
}

// NewECBEncrypter returns an ECB encrypter. A nil padding selects PKCS7Padding.
//
// ECB encrypts each block on its own: identical plaintext blocks give
// identical ciphertext blocks, so it leaks patterns in the data. It exists for
// interoperability and for building other constructions, not for bulk data.
func NewECBEncrypter(b cipher.Block, padding Padding) (*ModeDriver, error) {
	m := newModeDriver("ECB", b, padding, false)
	m.transform = func(dst, src []byte) { m.block.Encrypt(dst, src) }
	return m, nil
}

// NewECBDecrypter returns an ECB decrypter. A nil padding selects PKCS7Padding.
func NewECBDecrypter(b cipher.Block, padding Padding) (*ModeDriver, error) {
	m := newModeDriver("ECB", b, padding, true)
	m.transform = func(dst, src []byte) { m.block.Decrypt(dst, src) }
	return m, nil
}

// NewCBCEncrypter returns a CBC encrypter. iv must be one block long. A nil
// padding selects PKCS7Padding.
//
// Each ciphertext block is E(plaintext XOR previous ciphertext), starting
// from iv.
func NewCBCEncrypter(b cipher.Block, iv []byte, padding Padding) (*ModeDriver, error) {
	if err := checkIV(b, iv); err != nil {
		return nil, err
	}
	m := newModeDriver("CBC", b, padding, false)
	m.chain = append([]byte(nil), iv...)
	m.transform = func(dst, src []byte) {
		subtle.XORBytes(m.tmp, src, m.chain)
		m.block.Encrypt(dst, m.tmp)
		copy(m.chain, dst)
	}
	return m, nil
}

// NewCBCDecrypter returns a CBC decrypter. iv must be one block long. A nil
// padding selects PKCS7Padding.
//
// The chaining state advances to the ciphertext block just consumed, never to
// the recovered plaintext.
func NewCBCDecrypter(b cipher.Block, iv []byte, padding Padding) (*ModeDriver, error) {
	if err := checkIV(b, iv); err != nil {
		return nil, err
	}
	m := newModeDriver("CBC", b, padding, true)
	m.chain = append([]byte(nil), iv...)
	m.transform = func(dst, src []byte) {
		copy(m.tmp, src)
		m.block.Decrypt(dst, src)
		subtle.XORBytes(dst, dst, m.chain)
		copy(m.chain, m.tmp)
	}
	return m, nil
}

func newModeDriver(mode string, b cipher.Block, padding Padding, decrypt bool) *ModeDriver {
	if padding == nil {
		padding = PKCS7Padding{}
	}
	_, unpadded := padding.(NoPadding)
	bs := b.BlockSize()
	return &ModeDriver{
		mode:     mode,
		block:    b,
		buf:      NewBlockBuffer(bs, 0),
		padding:  padding,
		decrypt:  decrypt,
		holdLast: decrypt && !unpadded,
		tmp:      make([]byte, bs),
	}
}

func checkIV(b cipher.Block, iv []byte) error {
	if len(iv) != b.BlockSize() {
		richErr := goerrors.New(ErrCodeInvalidIV, fmt.Sprintf("IV must be %d bytes (got %d)", b.BlockSize(), len(iv)))
		return withSentinel(ErrInvalidLength, richErr)
	}
	return nil
}

// Mode returns "ECB" or "CBC".
func (m *ModeDriver) Mode() string { return m.mode }

// BlockSize returns the block size of the underlying cipher.
func (m *ModeDriver) BlockSize() int { return m.buf.BlockSize() }

// emit is the per-block callback handed to the block buffer.
func (m *ModeDriver) emit(block []byte) {
	var out []byte
	m.out, out = sliceForAppend(m.out, len(block))
	m.transform(out, block)
}

// Update processes src and appends every completed output block to dst.
func (m *ModeDriver) Update(dst, src []byte) ([]byte, error) {
	if m.finished {
		return dst, errFinished
	}
	m.out = dst
	var err error
	if m.holdLast {
		err = m.buf.InputHoldLast(src, m.emit)
	} else {
		err = m.buf.Input(src, m.emit)
	}
	dst, m.out = m.out, nil
	return dst, err
}

// Finish flushes the last block. When encrypting, the pending partial block is
// padded and processed. When decrypting, the held-back final block is
// processed and its padding checked; a padding failure yields ErrInvalidPadding
// without any detail.
//
// If Finish fails because the data so far is not block aligned under
// NoPadding, the driver is left untouched and more data may still be supplied.
func (m *ModeDriver) Finish(dst []byte) ([]byte, error) {
	if m.finished {
		return dst, errFinished
	}
	bs := m.BlockSize()

	if !m.decrypt {
		padded, err := m.padding.Pad(make([]byte, 0, 2*bs), m.buf.Pending(), bs)
		if err != nil {
			return dst, err
		}
		m.out = dst
		for i := 0; i < len(padded); i += bs {
			m.emit(padded[i : i+bs])
		}
		dst, m.out = m.out, nil
		SecureZero(padded)
		m.wipe()
		return dst, nil
	}

	if !m.holdLast {
		if m.buf.Len() != 0 {
			return dst, notAligned(int(m.buf.Count()), bs)
		}
		m.wipe()
		return dst, nil
	}

	pending := m.buf.Len()
	if pending != 0 && pending != bs {
		return dst, notAligned(int(m.buf.Count()), bs)
	}

	last := make([]byte, 0, bs)
	if pending == bs {
		var out []byte
		last, out = sliceForAppend(last, bs)
		m.transform(out, m.buf.Pending())
	}
	plain, err := m.padding.Unpad(last, bs)
	if err != nil {
		SecureZero(last)
		m.wipe()
		return dst, err
	}
	dst = append(dst, plain...)
	SecureZero(last)
	m.wipe()
	return dst, nil
}

func (m *ModeDriver) wipe() {
	m.buf.Reset()
	SecureZeroMultiple(m.chain, m.tmp)
	m.finished = true
}

// Process runs src through c in one Update followed by Finish. On failure any
// partial output is wiped before the error is returned.
func Process(c Crypter, src []byte) ([]byte, error) {
	out, err := c.Update(make([]byte, 0, len(src)+c.BlockSize()), src)
	if err == nil {
		out, err = c.Finish(out)
	}
	if err != nil {
		SecureZero(out[:cap(out)])
		return nil, err
	}
	return out, nil
}

// EncryptECB encrypts plaintext in ECB mode in one call.
func EncryptECB(b cipher.Block, plaintext []byte, padding Padding) ([]byte, error) {
	m, err := NewECBEncrypter(b, padding)
	if err != nil {
		return nil, err
	}
	return Process(m, plaintext)
}

// DecryptECB decrypts ciphertext in ECB mode in one call.
func DecryptECB(b cipher.Block, ciphertext []byte, padding Padding) ([]byte, error) {
	m, err := NewECBDecrypter(b, padding)
	if err != nil {
		return nil, err
	}
	return Process(m, ciphertext)
}

// EncryptCBC encrypts plaintext in CBC mode in one call.
func EncryptCBC(b cipher.Block, iv, plaintext []byte, padding Padding) ([]byte, error) {
	m, err := NewCBCEncrypter(b, iv, padding)
	if err != nil {
		return nil, err
	}
	return Process(m, plaintext)
}

// DecryptCBC decrypts ciphertext in CBC mode in one call.
func DecryptCBC(b cipher.Block, iv, ciphertext []byte, padding Padding) ([]byte, error) {
	m, err := NewCBCDecrypter(b, iv, padding)
	if err != nil {
		return nil, err
	}
	return Process(m, ciphertext)
}
