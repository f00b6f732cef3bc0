// scrypt.go: Scrypt memory-hard key derivation (RFC 7914).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"math/bits"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/salsa20/salsa"
)

const maxInt = int(^uint(0) >> 1)

// DefaultScryptMaxMemory is the scratch ceiling used when
// ScryptParams.MaxMemory is zero (1 GiB).
const DefaultScryptMaxMemory = 1 << 30

// ScryptParams defines the Scrypt cost parameters.
//
// N is the CPU/memory cost and must be a power of two greater than 1. R is the
// block size factor and P the parallelism factor; R*P must stay below 2^30.
// A derivation needs about 128*R*N bytes of scratch memory.
//
// MaxMemory caps the scratch memory a derivation may allocate. If zero,
// DefaultScryptMaxMemory is used. Parameters that need more fail with
// ErrMemoryLimit before anything is allocated.
//
// Example:
//
//	params := &crypto.ScryptParams{N: 1 << 15, R: 8, P: 1}
//	key, err := crypto.Scrypt(password, salt, params, 32)
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`

	MaxMemory uint64 `json:"max_memory,omitempty"`
}

// InteractiveScryptParams returns parameters suited to interactive logins.
//
// Parameters: N=2^15, R=8, P=1 (32 MiB)
func InteractiveScryptParams() *ScryptParams {
	return &ScryptParams{N: 1 << 15, R: 8, P: 1}
}

// SensitiveScryptParams returns parameters for long-term secrets such as
// file encryption keys. They need more than the default ceiling, so the
// preset raises MaxMemory to match.
//
// Parameters: N=2^20, R=8, P=1 (1 GiB), MaxMemory=2 GiB
func SensitiveScryptParams() *ScryptParams {
	return &ScryptParams{N: 1 << 20, R: 8, P: 1, MaxMemory: 2 << 30}
}

// NewScryptParams builds parameters from log2(N), r and p, the form used by
// most scrypt tooling, and validates them.
func NewScryptParams(logN uint8, r, p int) (*ScryptParams, error) {
	if logN == 0 || int(logN) >= bits.UintSize-1 {
		return nil, invalidParameter("scrypt log2(N) must be between 1 and %d (got %d)", bits.UintSize-2, logN)
	}
	params := &ScryptParams{N: 1 << logN, R: r, P: p}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks the parameters against the Scrypt bounds and the memory
// ceiling without allocating.
func (sp *ScryptParams) Validate() error {
	N, r, p := sp.N, sp.R, sp.P
	if N <= 1 || N&(N-1) != 0 {
		return invalidParameter("scrypt N must be > 1 and a power of 2 (got %d)", N)
	}
	if r <= 0 || p <= 0 {
		return invalidParameter("scrypt r and p must be positive (got r=%d, p=%d)", r, p)
	}
	if uint64(r)*uint64(p) >= 1<<30 || r > maxInt/128/p || r > maxInt/256 || N > maxInt/128/r {
		return invalidParameter("scrypt parameters are too large (N=%d, r=%d, p=%d)", N, r, p)
	}
	// N must be below 2^(128*r/8).
	if r < 4 && N >= 1<<(16*r) {
		return invalidParameter("scrypt N must be less than 2^(16*r) (got N=%d, r=%d)", N, r)
	}

	need := sp.RequiredMemory()
	if limit := sp.maxMemory(); need > limit {
		richErr := goerrors.New(ErrCodeMemoryLimit, fmt.Sprintf("scrypt needs %d bytes of scratch memory, limit is %d", need, limit))
		return withSentinel(ErrMemoryLimit, richErr)
	}
	return nil
}

// RequiredMemory returns the scratch bytes a derivation with these parameters
// allocates: the N-slot array, the mixing buffer and the p initial blocks. It
// assumes the parameters passed the size checks in Validate.
func (sp *ScryptParams) RequiredMemory() uint64 {
	r := uint64(sp.R)
	return 128*r*uint64(sp.N) + 256*r + 128*r*uint64(sp.P)
}

func (sp *ScryptParams) maxMemory() uint64 {
	if sp.MaxMemory == 0 {
		return DefaultScryptMaxMemory
	}
	return sp.MaxMemory
}

// scratchAlloc allocates the large Scrypt buffers.
var scratchAlloc = func(n int) []byte { return make([]byte, n) }

// Scrypt derives dkLen bytes from password and salt.
//
// The salt and password are expanded by PBKDF2-HMAC-SHA256 into P blocks of
// 128*R bytes, each block runs through ROMix over an N-slot scratch array, and
// a last PBKDF2 pass over the mixed blocks produces the output. The P lanes run
// one after another on a single scratch array, so memory use does not grow
// with P.
//
// Invalid parameters fail with ErrInvalidParameter and parameters above the
// memory ceiling with ErrMemoryLimit, in both cases before any scratch memory
// is allocated. Every scratch buffer is wiped before Scrypt returns. A nil
// params uses InteractiveScryptParams.
//
// Example:
//
//	key, err := crypto.Scrypt(password, salt, crypto.InteractiveScryptParams(), 32)
//	if err != nil {
//		return err
//	}
//	defer crypto.SecureZero(key)
func Scrypt(password, salt []byte, params *ScryptParams, dkLen int) ([]byte, error) {
	if params == nil {
		params = InteractiveScryptParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if dkLen < 0 || uint64(dkLen) > (1<<32-1)*SHA256Size {
		return nil, invalidParameter("scrypt derived key length out of range (got %d)", dkLen)
	}
	N, r, p := params.N, params.R, params.P

	b, err := PBKDF2(NewSHA256, password, salt, 1, p*128*r)
	if err != nil {
		return nil, err
	}
	defer SecureZero(b)

	xy := scratchAlloc(256 * r)
	defer SecureZero(xy)
	v := scratchAlloc(128 * r * N)
	defer SecureZero(v)

	for i := 0; i < p; i++ {
		smix(b[i*128*r:], r, N, v, xy)
	}

	return PBKDF2(NewSHA256, password, b, 1, dkLen)
}

// blockMix runs Salsa20/8 over the 2r 64-byte words of b, using y as
// temporary space, and stores the even outputs followed by the odd ones.
func blockMix(b, y []byte, r int) {
	var x [64]byte
	copy(x[:], b[(2*r-1)*64:])

	for i := 0; i < 2*r*64; i += 64 {
		subtle.XORBytes(x[:], x[:], b[i:i+64])
		salsa.Core208(&x, &x)
		copy(y[i:], x[:])
	}

	for i := 0; i < r; i++ {
		copy(b[i*64:(i+1)*64], y[i*2*64:])
	}
	for i := 0; i < r; i++ {
		copy(b[(i+r)*64:(i+r+1)*64], y[(i*2+1)*64:])
	}
}

// integerify reads the first little-endian word of the last 64-byte block.
func integerify(b []byte, r int) uint64 {
	return binary.LittleEndian.Uint64(b[(2*r-1)*64:])
}

// smix is ROMix: fill v with successive BlockMix states, then mix in N
// slots chosen by integerify. The slot lookup depends on the data by design.
func smix(b []byte, r, N int, v, xy []byte) {
	size := 128 * r
	x := xy[:size]
	y := xy[size:]

	copy(x, b[:size])

	for i := 0; i < N; i++ {
		copy(v[i*size:], x)
		blockMix(x, y, r)
	}

	for i := 0; i < N; i++ {
		j := int(integerify(x, r) & uint64(N-1)) // #nosec G115 -- masked below N
		subtle.XORBytes(x, x, v[j*size:(j+1)*size])
		blockMix(x, y, r)
	}

	copy(b[:size], x)
}
