// kdf.go: Argon2id password hashing and HKDF key expansion.
//
// Argon2id is available next to Scrypt and PBKDF2 for callers that want the
// current password-hashing recommendation:
//
//	// Use secure defaults (pass nil)
//	key, err := crypto.DeriveKey(password, salt, 32, nil)
//
// Pre-defined configurations are available via helper functions:
//
//	params := crypto.BalancedKDFParams()     // Throughput-oriented
//	params := crypto.HighSecurityKDFParams() // Maximum security
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"hash"

	"golang.org/x/crypto/argon2"
)

// Default Argon2 parameters for key derivation.
// These values provide a good balance between security and performance.
const (
	// DefaultTime is the default number of iterations for Argon2id.
	// Higher values increase security but also computation time.
	DefaultTime = 3

	// DefaultMemory is the default memory usage in MB for Argon2id.
	// Higher values increase security against memory-based attacks.
	DefaultMemory = 64

	// DefaultThreads is the default number of threads for Argon2id.
	// Should not exceed the number of CPU cores.
	DefaultThreads = 4
)

// KDFParams defines custom parameters for Argon2id key derivation.
//
// If a field is zero, the library's secure default will be used.
// This allows for flexible configuration while maintaining security.
//
// Example:
//
//	// Use custom parameters
//	params := &crypto.KDFParams{
//		Time:    4,    // 4 iterations
//		Memory:  128,  // 128 MB memory
//		Threads: 2,    // 2 threads
//	}
//	key, err := crypto.DeriveKey(password, salt, 32, params)
//
//	// Use secure defaults (pass nil)
//	key, err := crypto.DeriveKey(password, salt, 32, nil)
type KDFParams struct {
	// Time is the number of iterations for Argon2id.
	// If zero, DefaultTime is used.
	Time uint32 `json:"time,omitempty"`

	// Memory is the memory usage in MB for Argon2id.
	// If zero, DefaultMemory is used.
	Memory uint32 `json:"memory,omitempty"`

	// Threads is the number of threads for Argon2id.
	// If zero, DefaultThreads is used.
	Threads uint8 `json:"threads,omitempty"`
}

// BalancedKDFParams returns Argon2id parameters tuned for high-throughput
// services that still want strong resistance against offline attacks.
//
// Parameters: Time=2, Memory=64MB, Threads=4
func BalancedKDFParams() *KDFParams {
	return &KDFParams{
		Time:    2,
		Memory:  64,
		Threads: 4,
	}
}

// HighSecurityKDFParams returns Argon2id parameters for maximum security scenarios.
//
// These parameters prioritize security over performance. Recommended for
// master key derivation or high-value secret encryption.
//
// Parameters: Time=5, Memory=128MB, Threads=4
func HighSecurityKDFParams() *KDFParams {
	return &KDFParams{
		Time:    5,
		Memory:  128,
		Threads: 4,
	}
}

// FastKDFParams returns Argon2id parameters optimized for speed.
//
// Suitable for development, testing, or scenarios where KDF performance is
// critical and the threat model allows for reduced security margins.
//
// Parameters: Time=1, Memory=32MB, Threads=2
func FastKDFParams() *KDFParams {
	return &KDFParams{
		Time:    1,
		Memory:  32,
		Threads: 2,
	}
}

// DeriveKey derives a key from a password and salt using Argon2id.
//
// Parameters:
//   - password: The password to derive the key from (cannot be empty)
//   - salt: The salt to use for key derivation (cannot be empty, should be random)
//   - keyLen: The desired length of the derived key in bytes (must be positive)
//   - params: Custom Argon2id parameters (nil to use secure defaults)
//
// Example:
//
//	key, err := crypto.DeriveKey([]byte("my-secure-password"), salt, 32, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// If params is nil, secure defaults are used (Time: 3, Memory: 64MB, Threads: 4).
func DeriveKey(password, salt []byte, keyLen int, params *KDFParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, invalidParameter("password cannot be empty")
	}
	if len(salt) == 0 {
		return nil, invalidParameter("salt cannot be empty")
	}
	if keyLen <= 0 || uint64(keyLen) > 1<<32-1 {
		return nil, invalidParameter("key length must be between 1 and 2^32-1 (got %d)", keyLen)
	}

	time := uint32(DefaultTime)
	memory := uint32(DefaultMemory * 1024)
	threads := uint8(DefaultThreads)

	if params != nil {
		if params.Time > 0 {
			time = params.Time
		}
		if params.Memory > 0 {
			memory = params.Memory * 1024
		}
		if params.Threads > 0 {
			threads = params.Threads
		}
	}

	// gosec G115 is excluded: keyLen is bounded above
	key := argon2.IDKey(password, salt, time, memory, threads, uint32(keyLen)) // #nosec G115
	return key, nil
}

// DeriveKeyDefault derives a key using Argon2id with secure default parameters.
func DeriveKeyDefault(password, salt []byte, keyLen int) ([]byte, error) {
	return DeriveKey(password, salt, keyLen, nil)
}

// HKDFExtract computes PRK = HMAC(salt, ikm) (RFC 5869 section 2.2). A nil or
// empty salt is replaced by a block of hash-size zeros.
func HKDFExtract(h func() hash.Hash, salt, ikm []byte) []byte {
	if len(salt) == 0 {
		size := h().Size()
		saltBuf := getBuffer(size)
		defer putBuffer(saltBuf)
		salt = *saltBuf
	}
	mac := NewHMAC(h, salt)
	defer mac.Destroy()
	_, _ = mac.Write(ikm)
	return mac.Sum(nil)
}

// HKDFExpand computes length bytes of output keying material from prk and info
// (RFC 5869 section 2.3). length may not exceed 255 times the hash size.
func HKDFExpand(h func() hash.Hash, prk, info []byte, length int) ([]byte, error) {
	mac := NewHMAC(h, prk)
	defer mac.Destroy()

	hashSize := mac.Size()
	if length < 0 || length > 255*hashSize {
		return nil, invalidParameter("HKDF output length must be between 0 and %d (got %d)", 255*hashSize, length)
	}
	n := (length + hashSize - 1) / hashSize

	tBuf := getDynamicBuffer()
	defer putDynamicBuffer(tBuf)

	okm := make([]byte, 0, n*hashSize)
	counter := [1]byte{}
	for i := 1; i <= n; i++ {
		mac.Reset()
		_, _ = mac.Write(tBuf)
		_, _ = mac.Write(info)
		counter[0] = byte(i)
		_, _ = mac.Write(counter[:])
		tBuf = mac.Sum(tBuf[:0])
		okm = append(okm, tBuf...)
	}

	if len(okm) > length {
		SecureZero(okm[length:])
	}
	return okm[:length], nil
}

// DeriveKeyHKDF derives a key using HKDF-SHA256 (RFC 5869).
//
// Parameters:
//   - masterKey: The input keying material (IKM), typically 32 bytes
//   - salt: Optional salt value (can be nil)
//   - info: Optional context/application info (can be nil)
//   - keyLen: Length of output key in bytes
//
// Example:
//
//	subkey, err := crypto.DeriveKeyHKDF(masterKey, nil, []byte("cbc-key-v1"), 32)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Security: HKDF is designed for high-entropy inputs (like randomly generated keys).
// For password-based key derivation, use Scrypt or DeriveKey instead.
func DeriveKeyHKDF(masterKey, salt, info []byte, keyLen int) ([]byte, error) {
	if len(masterKey) == 0 {
		return nil, invalidParameter("master key cannot be empty")
	}
	if keyLen <= 0 {
		return nil, invalidParameter("key length must be positive (got %d)", keyLen)
	}

	prk := HKDFExtract(NewSHA256, salt, masterKey)
	defer SecureZero(prk)

	return HKDFExpand(NewSHA256, prk, info, keyLen)
}
