// scrypt_test.go: Scrypt known-answer, parameter and memory ceiling tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/scrypt"
)

// countAllocs replaces the scratch allocator for the duration of the test.
func countAllocs(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := scratchAlloc
	scratchAlloc = func(n int) []byte {
		calls++
		return orig(n)
	}
	t.Cleanup(func() { scratchAlloc = orig })
	return &calls
}

func TestScrypt_RFC7914(t *testing.T) {
	tests := []struct {
		name     string
		password string
		salt     string
		params   ScryptParams
		want     string
		long     bool
	}{
		{
			"empty inputs", "", "", ScryptParams{N: 16, R: 1, P: 1},
			"77d6576238657b203b19ca42c18a0497f16b4844e3074ae8dfdffa3fede21442" +
				"fcd0069ded0948f8326a753a0fc81f17e8d3e0fb2e0d3628cf35e20c38d18906",
			false,
		},
		{
			"parallel lanes", "password", "NaCl", ScryptParams{N: 1024, R: 8, P: 16},
			"fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b373162" +
				"2eaf30d92e22a3886ff109279d9830dac727afb94a83ee6d8360cbdfa2cc0640",
			false,
		},
		{
			"large N", "pleaseletmein", "SodiumChloride", ScryptParams{N: 16384, R: 8, P: 1},
			"7023bdcb3afd7348461c06cd81fd38ebfda8fbba904f8e3ea9b543f6545da1f2" +
				"d5432955613f0fcf62d49705242a9af9e61e85dc0d651e40dfcf017b45575887",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.long && testing.Short() {
				t.Skip("skipping large scrypt vector in short mode")
			}
			got, err := Scrypt([]byte(tt.password), []byte(tt.salt), &tt.params, 64)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestScrypt_MatchesXCrypto(t *testing.T) {
	password := []byte("hunter2")
	salt := []byte("0123456789abcdef")
	for _, p := range []ScryptParams{{N: 2, R: 1, P: 1}, {N: 64, R: 2, P: 3}, {N: 256, R: 4, P: 2}} {
		for _, dkLen := range []int{1, 32, 33} {
			got, err := Scrypt(password, salt, &p, dkLen)
			require.NoError(t, err)
			want, err := scrypt.Key(password, salt, p.N, p.R, p.P, dkLen)
			require.NoError(t, err)
			assert.Equal(t, want, got, "N=%d r=%d p=%d dkLen=%d", p.N, p.R, p.P, dkLen)
		}
	}
}

func TestScrypt_InvalidParametersAllocateNothing(t *testing.T) {
	calls := countAllocs(t)

	tests := []struct {
		name   string
		params ScryptParams
	}{
		{"N not a power of two", ScryptParams{N: 1000, R: 8, P: 1}},
		{"N of one", ScryptParams{N: 1, R: 8, P: 1}},
		{"N of zero", ScryptParams{N: 0, R: 8, P: 1}},
		{"negative N", ScryptParams{N: -16, R: 8, P: 1}},
		{"zero r", ScryptParams{N: 16, R: 0, P: 1}},
		{"negative p", ScryptParams{N: 16, R: 1, P: -1}},
		{"r times p too large", ScryptParams{N: 16, R: 1 << 15, P: 1 << 15}},
		{"N too large for r", ScryptParams{N: 1 << 16, R: 1, P: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dk, err := Scrypt([]byte("pw"), []byte("salt"), &tt.params, 32)
			assert.Nil(t, dk)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
	assert.Zero(t, *calls)
}

func TestScrypt_MemoryLimit(t *testing.T) {
	calls := countAllocs(t)

	params := &ScryptParams{N: 1 << 14, R: 8, P: 1, MaxMemory: 1 << 20}
	dk, err := Scrypt([]byte("pw"), []byte("salt"), params, 32)
	assert.Nil(t, dk)
	assert.True(t, errors.Is(err, ErrMemoryLimit))
	assert.False(t, errors.Is(err, ErrInvalidParameter))
	assert.Zero(t, *calls)

	// The same cost fits once the ceiling is raised.
	params.MaxMemory = params.RequiredMemory()
	dk, err = Scrypt([]byte("pw"), []byte("salt"), params, 32)
	require.NoError(t, err)
	assert.Len(t, dk, 32)
	assert.Equal(t, 2, *calls)
}

func TestScrypt_DefaultCeiling(t *testing.T) {
	// 128 * 8 * 2^20 plus the small buffers is just over 1 GiB.
	err := (&ScryptParams{N: 1 << 20, R: 8, P: 1}).Validate()
	assert.True(t, errors.Is(err, ErrMemoryLimit))
	assert.NoError(t, SensitiveScryptParams().Validate())
	assert.NoError(t, InteractiveScryptParams().Validate())
}

func TestScrypt_CostChangesOutput(t *testing.T) {
	a, err := Scrypt([]byte("pw"), []byte("salt"), &ScryptParams{N: 16, R: 1, P: 1}, 32)
	require.NoError(t, err)
	b, err := Scrypt([]byte("pw"), []byte("salt"), &ScryptParams{N: 32, R: 1, P: 1}, 32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestScrypt_OutputLength(t *testing.T) {
	params := &ScryptParams{N: 16, R: 1, P: 1}
	dk, err := Scrypt(nil, nil, params, 0)
	require.NoError(t, err)
	assert.Empty(t, dk)

	_, err = Scrypt(nil, nil, params, -1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestNewScryptParams(t *testing.T) {
	p, err := NewScryptParams(4, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, p.N)

	_, err = NewScryptParams(0, 1, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewScryptParams(200, 8, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewScryptParams(10, 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = NewScryptParams(30, 8, 1)
	assert.True(t, errors.Is(err, ErrMemoryLimit))
}

func TestScryptParams_RequiredMemory(t *testing.T) {
	p := &ScryptParams{N: 1024, R: 8, P: 16}
	assert.Equal(t, uint64(128*8*1024+256*8+128*8*16), p.RequiredMemory())
}

func BenchmarkScrypt_Interactive(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Scrypt([]byte("password"), []byte("salt"), nil, 32)
	}
}
