// Package crypto provides streaming symmetric cryptography building blocks for Go applications.
//
// This package offers a compact set of primitives built around one incremental model:
//   - AES-128/192/256 with a one-time hardware probe selecting between the
//     CPU's AES instructions and a table-free constant-time implementation
//   - ECB, CBC and CTR mode drivers with PKCS#7 or no padding
//   - SHA-1, SHA-256 and SHA-512 digests, HMAC and CMAC
//   - PBKDF2 and Scrypt key derivation, plus Argon2id and HKDF
//   - Fixed-time comparison and compiler-resistant zeroization
//   - io.Writer / io.Reader adapters for streaming large inputs
//
// Every driver accepts input in chunks of any size and produces output identical
// to a single call with the whole message.
//
// # Quick Start
//
// CBC encryption and decryption with a random IV:
//
//	key, _ := crypto.GenerateKey(32)
//	block, err := crypto.NewAES(key)
//	if err != nil {
//		log.Fatal(err)
//	}
//	iv, _ := crypto.GenerateIV(crypto.AESBlockSize)
//
//	ciphertext, err := crypto.EncryptCBC(block, iv, []byte("sensitive data"), crypto.PKCS7Padding{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	plaintext, err := crypto.DecryptCBC(block, iv, ciphertext, crypto.PKCS7Padding{})
//	if err != nil {
//		log.Fatal(err) // crypto.ErrInvalidPadding on tampered input
//	}
//
// # Incremental Use
//
// The same operations are available as drivers fed piece by piece:
//
//	enc, _ := crypto.NewCTR(block, iv)
//	out, _ := enc.Update(nil, chunk1)
//	out, _ = enc.Update(out, chunk2)
//	out, _ = enc.Finish(out)
//
//	h := crypto.NewSHA256()
//	h.Write(part1)
//	h.Write(part2)
//	sum := h.Sum(nil)
//
// # Key Derivation
//
// For deriving keys from passwords:
//
//	// Scrypt with a configurable memory ceiling
//	params, err := crypto.NewScryptParams(15, 8, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//	key, err := crypto.Scrypt(password, salt, params, 32)
//
//	// PBKDF2 over any hash
//	key, err = crypto.PBKDF2(crypto.NewSHA256, password, salt, 600000, 32)
//
// # Error Handling
//
// All functions return standard Go errors for maximum compatibility.
// For advanced error handling with rich error details, the library integrates
// with github.com/agilira/go-errors: every error also carries an ErrCode* code.
//
// Example error handling:
//
//	key, err := crypto.Scrypt(password, salt, params, 32)
//	if err != nil {
//		if errors.Is(err, crypto.ErrMemoryLimit) {
//			// Raise params.MaxMemory or lower N
//		} else if errors.Is(err, crypto.ErrInvalidParameter) {
//			// Reject the configuration
//		}
//	}
//
// Padding failures on decryption always return the same error value and MAC
// verification only ever reports a bool.
//
// # Security Considerations
//
//   - Compare tags with FixedTimeEquals or the Verify methods, never bytes.Equal
//   - ECB leaks plaintext patterns; prefer CBC or CTR for data
//   - Never reuse a (key, initial counter) pair with CTR
//   - Wipe keys and derived material with SecureZero when done
//   - Build with -tags purego to force the portable AES implementation
//
// # Concurrency
//
// A cipher.Block returned by NewAES is immutable and may be shared. Drivers,
// digests and MACs hold per-operation state and must be used by one goroutine
// at a time.
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra library
// SPDX-License-Identifier: MPL-2.0
package crypto
