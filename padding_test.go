// padding_test.go: Tests for the final-block padding policies.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/agilira/cryptocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPKCS7_RoundTrip(t *testing.T) {
	p := crypto.PKCS7Padding{}
	for _, bs := range []int{1, 8, 16, 255} {
		for n := 0; n <= 2*bs+1 && n < 600; n++ {
			msg := bytes.Repeat([]byte{0x42}, n)
			padded, err := p.Pad(nil, msg, bs)
			require.NoError(t, err)

			if len(padded) == 0 || len(padded)%bs != 0 {
				t.Fatalf("bs=%d n=%d: padded length %d is not a positive multiple", bs, n, len(padded))
			}
			if len(padded)-n < 1 || len(padded)-n > bs {
				t.Fatalf("bs=%d n=%d: added %d bytes", bs, n, len(padded)-n)
			}

			unpadded, err := p.Unpad(padded, bs)
			require.NoError(t, err)
			require.Equal(t, msg, unpadded)
		}
	}
}

func TestPKCS7_AlignedGetsFullBlock(t *testing.T) {
	padded, err := crypto.PKCS7Padding{}.Pad(nil, make([]byte, 16), 16)
	require.NoError(t, err)
	require.Len(t, padded, 32)
	assert.Equal(t, bytes.Repeat([]byte{16}, 16), padded[16:])
}

func TestPKCS7_PadAppendsToDst(t *testing.T) {
	dst := []byte("prefix")
	out, err := crypto.PKCS7Padding{}.Pad(dst, []byte("abc"), 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("prefixabc\x05\x05\x05\x05\x05"), out)
}

func TestPKCS7_UnpadRejectsBadPadding(t *testing.T) {
	p := crypto.PKCS7Padding{}
	tests := []struct {
		name string
		data []byte
	}{
		{"zero pad byte", append(bytes.Repeat([]byte{1}, 15), 0)},
		{"pad byte exceeds block", append(bytes.Repeat([]byte{1}, 15), 17)},
		{"inconsistent run", append(bytes.Repeat([]byte{0}, 12), 4, 4, 3, 4)},
		{"first pad byte wrong", append(bytes.Repeat([]byte{0}, 12), 3, 4, 4, 4)},
		{"full block wrong", append(bytes.Repeat([]byte{16}, 15), 15)},
		{"empty", []byte{}},
	}

	var firstErr error
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Unpad(tt.data, 16)
			assert.Nil(t, out)
			require.Error(t, err)
			assert.True(t, errors.Is(err, crypto.ErrInvalidPadding))

			// Every failure reports the same error.
			if firstErr == nil {
				firstErr = err
			}
			assert.Equal(t, firstErr.Error(), err.Error())
		})
	}
}

func TestPKCS7_UnpadMisaligned(t *testing.T) {
	_, err := crypto.PKCS7Padding{}.Unpad(make([]byte, 15), 16)
	assert.True(t, errors.Is(err, crypto.ErrInvalidLength))
}

func TestPKCS7_InvalidBlockSize(t *testing.T) {
	for _, bs := range []int{0, -1, 256} {
		_, err := crypto.PKCS7Padding{}.Pad(nil, nil, bs)
		assert.True(t, errors.Is(err, crypto.ErrInvalidParameter), "bs=%d", bs)
	}
}

func TestNoPadding(t *testing.T) {
	p := crypto.NoPadding{}
	assert.Equal(t, "none", p.Name())
	assert.Equal(t, "pkcs7", crypto.PKCS7Padding{}.Name())

	out, err := p.Pad(nil, make([]byte, 32), 16)
	require.NoError(t, err)
	assert.Len(t, out, 32)

	out, err = p.Pad(nil, nil, 16)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = p.Pad(nil, make([]byte, 17), 16)
	assert.True(t, errors.Is(err, crypto.ErrInvalidLength))

	data := make([]byte, 16)
	out, err = p.Unpad(data, 16)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = p.Unpad(make([]byte, 3), 16)
	assert.True(t, errors.Is(err, crypto.ErrInvalidLength))
}
