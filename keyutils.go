// keyutils.go: Key utilities for import/export, generation and fingerprinting.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// KeyToBase64 encodes a key as a base64 string.
//
// Example:
//
//	key, _ := crypto.GenerateKey(32)
//	fmt.Println("Base64 key:", crypto.KeyToBase64(key))
func KeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// KeyFromBase64 decodes a base64 string to a key.
//
// Example:
//
//	key, err := crypto.KeyFromBase64("dGVzdC1rZXktZGF0YS0xMjM0NTY3ODkwYWJjZGVm")
//	if err != nil {
//		log.Fatal(err)
//	}
func KeyFromBase64(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, goerrors.Wrap(err, "BASE64_DECODE_ERROR", "failed to decode base64 key")
	}
	return key, nil
}

// KeyToHex encodes a key as a lowercase hexadecimal string.
//
// This is the format cryptoutil prints derived keys in when raw output is
// not requested.
func KeyToHex(key []byte) string {
	return hex.EncodeToString(key)
}

// KeyFromHex decodes a hexadecimal string to a key. Both upper and lowercase
// digits are accepted.
//
// Example:
//
//	key, err := crypto.KeyFromHex("000102030405060708090a0b0c0d0e0f")
//	if err != nil {
//		log.Fatal(err)
//	}
//	block, err := crypto.NewAES(key)
func KeyFromHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, goerrors.Wrap(err, "HEX_DECODE_ERROR", "failed to decode hex key")
	}
	return key, nil
}

// GetKeyFingerprint generates a short identifier for a key.
//
// The fingerprint is the first 8 bytes of SHA-256(key) as 16 hex characters.
// It is useful for logging and debugging without exposing the key material.
// An empty key gives an empty string.
func GetKeyFingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	sum := Sum256(key)
	return fmt.Sprintf("%016x", sum[:8])
}

// GenerateKey returns size bytes from the operating system CSPRNG, e.g. 16,
// 24 or 32 for AES.
func GenerateKey(size int) ([]byte, error) {
	if size <= 0 {
		return nil, invalidParameter("key size must be positive (got %d)", size)
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, goerrors.Wrap(err, "KEY_GEN_ERROR", "failed to generate key")
	}
	return key, nil
}

// GenerateIV returns a random IV of one block for CBC, or a random initial
// counter block for CTR.
//
// A CTR counter block must never be reused with the same key. Random 128-bit
// counters are safe for a large number of messages but callers encrypting at
// very high volume should track counters instead.
func GenerateIV(blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, invalidParameter("block size must be positive (got %d)", blockSize)
	}
	iv := make([]byte, blockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, goerrors.Wrap(err, "IV_GEN_ERROR", "failed to generate IV")
	}
	return iv, nil
}
