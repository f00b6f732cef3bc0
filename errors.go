// errors.go: Error taxonomy shared by every primitive in the package.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Public standard errors.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidParameter is returned when a KDF cost parameter, iteration count,
	// output length or other numeric argument is out of range.
	ErrInvalidParameter = errors.New("crypto: invalid parameter")

	// ErrInvalidKeySize is returned when a key has a length the primitive does not accept.
	ErrInvalidKeySize = errors.New("crypto: invalid key size")

	// ErrInvalidLength is returned when an IV has the wrong size or when input
	// is not block aligned under a policy that requires it.
	ErrInvalidLength = errors.New("crypto: invalid length")

	// ErrInvalidPadding is returned when padding validation fails on decryption.
	// It never says which byte was wrong.
	ErrInvalidPadding = errors.New("crypto: invalid padding")

	// ErrMemoryLimit is returned when a KDF would need more scratch memory than
	// the configured ceiling.
	ErrMemoryLimit = errors.New("crypto: memory limit exceeded")

	// ErrLengthLimit is returned when a digest would exceed the maximum message
	// length its length suffix can encode.
	ErrLengthLimit = errors.New("crypto: message length limit exceeded")

	// ErrFinished is returned when a driver is used after Finish.
	ErrFinished = errors.New("crypto: operation already finished")
)

// Error codes for rich error handling
const (
	ErrCodeInvalidParameter = "CRYPTO_INVALID_PARAMETER"
	ErrCodeInvalidKey       = "CRYPTO_INVALID_KEY"
	ErrCodeInvalidIV        = "CRYPTO_INVALID_IV"
	ErrCodeNotAligned       = "CRYPTO_NOT_BLOCK_ALIGNED"
	ErrCodeBadPadding       = "CRYPTO_BAD_PADDING"
	ErrCodeMemoryLimit      = "CRYPTO_MEMORY_LIMIT"
	ErrCodeLengthLimit      = "CRYPTO_LENGTH_LIMIT"
	ErrCodeFinished         = "CRYPTO_FINISHED"
)

// withSentinel joins a public sentinel with a coded rich error so callers can
// use either errors.Is on the sentinel or the code carried by go-errors.
func withSentinel(sentinel, richErr error) error {
	return fmt.Errorf("%w: %w", sentinel, richErr)
}

func invalidParameter(format string, args ...any) error {
	richErr := goerrors.New(ErrCodeInvalidParameter, fmt.Sprintf(format, args...))
	return withSentinel(ErrInvalidParameter, richErr)
}

// errPadding is shared so every padding failure is byte-for-byte identical.
var errPadding = withSentinel(ErrInvalidPadding, goerrors.New(ErrCodeBadPadding, "padding validation failed"))

var errFinished = withSentinel(ErrFinished, goerrors.New(ErrCodeFinished, "driver used after Finish"))
