// aes.go: AES block primitive with hardware/portable dispatch.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// AESBlockSize is the AES block size in bytes.
const AESBlockSize = 16

// aesImpl names the closed set of AES implementations.
type aesImpl int

const (
	// aesPortable is the in-package constant-time implementation.
	aesPortable aesImpl = iota
	// aesAccelerated is crypto/aes, which uses the CPU's AES instructions.
	aesAccelerated
)

func (i aesImpl) String() string {
	switch i {
	case aesAccelerated:
		return "accelerated"
	default:
		return "portable"
	}
}

// selectAES is the single dispatch point for AES. The runtime library's
// software fallback uses lookup tables, so it is only chosen when the
// hardware path is really there.
func selectAES() aesImpl {
	if HardwareCapabilities().AES {
		return aesAccelerated
	}
	return aesPortable
}

// NewAES returns an AES block cipher for a 16, 24 or 32 byte key, selecting
// AES-128, AES-192 or AES-256.
//
// The implementation is picked once here; the returned cipher.Block carries
// only its immutable key schedule, so one instance may be shared by any
// number of concurrent mode drivers.
//
// Example:
//
//	block, err := crypto.NewAES(key)
//	if err != nil {
//		return err
//	}
//	enc, err := crypto.NewCBCEncrypter(block, iv, crypto.PKCS7Padding{})
func NewAES(key []byte) (cipher.Block, error) {
	return newAES(selectAES(), key)
}

func newAES(impl aesImpl, key []byte) (cipher.Block, error) {
	if err := ValidateAESKey(key); err != nil {
		return nil, err
	}
	if impl == aesAccelerated {
		return aes.NewCipher(key)
	}
	return newPortableAES(key), nil
}

// ValidateAESKey checks that key is 16, 24 or 32 bytes long.
func ValidateAESKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	}
	richErr := goerrors.New(ErrCodeInvalidKey, fmt.Sprintf("AES key must be 16, 24 or 32 bytes (got %d)", len(key)))
	return withSentinel(ErrInvalidKeySize, richErr)
}
