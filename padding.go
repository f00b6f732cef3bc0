// padding.go: Final-block padding policies for block cipher modes.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/subtle"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Padding is a stateless final-block policy. Implementations are plain values
// and safe for concurrent use.
type Padding interface {
	// Name identifies the policy ("pkcs7", "none").
	Name() string

	// Pad appends msg followed by its padding to dst. The appended length is a
	// multiple of blockSize.
	Pad(dst, msg []byte, blockSize int) ([]byte, error)

	// Unpad validates the padding at the end of data and returns data without
	// it. The result aliases data.
	Unpad(data []byte, blockSize int) ([]byte, error)
}

// PKCS7Padding pads with n bytes of value n, where n is between 1 and the
// block size. A block-aligned message gets a full block of padding, so padded
// output is never empty.
type PKCS7Padding struct{}

// Name returns "pkcs7".
func (PKCS7Padding) Name() string { return "pkcs7" }

// Pad implements Padding.
func (PKCS7Padding) Pad(dst, msg []byte, blockSize int) ([]byte, error) {
	if err := checkPaddingBlockSize(blockSize); err != nil {
		return nil, err
	}
	n := blockSize - len(msg)%blockSize
	dst = append(dst, msg...)
	for i := 0; i < n; i++ {
		dst = append(dst, byte(n))
	}
	return dst, nil
}

// Unpad implements Padding.
//
// Exactly blockSize trailing bytes are inspected on every call and the result
// is folded into one validity flag with mask arithmetic, so the time taken
// does not depend on which byte (if any) is wrong. All failures return the
// same error value.
func (PKCS7Padding) Unpad(data []byte, blockSize int) ([]byte, error) {
	if err := checkPaddingBlockSize(blockSize); err != nil {
		return nil, err
	}
	if len(data)%blockSize != 0 {
		return nil, notAligned(len(data), blockSize)
	}
	if len(data) == 0 {
		return nil, errPadding
	}

	last := data[len(data)-1]
	n := int(last)

	good := subtle.ConstantTimeLessOrEq(1, n) & subtle.ConstantTimeLessOrEq(n, blockSize)

	var diff byte
	tail := data[len(data)-blockSize:]
	for i := 0; i < blockSize; i++ {
		inPad := byte(-ctLess(i, n))
		diff |= inPad & (tail[blockSize-1-i] ^ last)
	}
	good &= subtle.ConstantTimeByteEq(diff, 0)

	if good != 1 {
		return nil, errPadding
	}
	return data[:len(data)-n], nil
}

// NoPadding requires block-aligned messages and adds nothing.
type NoPadding struct{}

// Name returns "none".
func (NoPadding) Name() string { return "none" }

// Pad implements Padding.
func (NoPadding) Pad(dst, msg []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, invalidParameter("block size must be positive (got %d)", blockSize)
	}
	if len(msg)%blockSize != 0 {
		return nil, notAligned(len(msg), blockSize)
	}
	return append(dst, msg...), nil
}

// Unpad implements Padding.
func (NoPadding) Unpad(data []byte, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, invalidParameter("block size must be positive (got %d)", blockSize)
	}
	if len(data)%blockSize != 0 {
		return nil, notAligned(len(data), blockSize)
	}
	return data, nil
}

func checkPaddingBlockSize(blockSize int) error {
	if blockSize <= 0 || blockSize > 255 {
		return invalidParameter("PKCS#7 block size must be between 1 and 255 (got %d)", blockSize)
	}
	return nil
}

func notAligned(length, blockSize int) error {
	richErr := goerrors.New(ErrCodeNotAligned, fmt.Sprintf("length %d is not a multiple of the %d byte block size", length, blockSize))
	return withSentinel(ErrInvalidLength, richErr)
}
