// aes_portable.go: Table-free constant-time AES used when hardware AES is absent.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

// portableAES computes every S-box value arithmetically (GF(2^8) inversion
// followed by the affine map) so no memory access depends on key or data.
// It is slow compared to the hardware path but its timing is flat.
type portableAES struct {
	rounds int
	xk     []byte // 16*(rounds+1) bytes of round keys, never mutated after setup
}

func newPortableAES(key []byte) *portableAES {
	nk := len(key) / 4
	rounds := nk + 6
	words := 4 * (rounds + 1)

	xk := make([]byte, 4*words)
	copy(xk, key)

	rcon := byte(0x01)
	var temp [4]byte
	for i := nk; i < words; i++ {
		copy(temp[:], xk[4*(i-1):4*i])
		switch {
		case i%nk == 0:
			temp[0], temp[1], temp[2], temp[3] = temp[1], temp[2], temp[3], temp[0]
			for j := range temp {
				temp[j] = sbox(temp[j])
			}
			temp[0] ^= rcon
			rcon = xtime(rcon)
		case nk > 6 && i%nk == 4:
			for j := range temp {
				temp[j] = sbox(temp[j])
			}
		}
		for j := 0; j < 4; j++ {
			xk[4*i+j] = xk[4*(i-nk)+j] ^ temp[j]
		}
	}
	SecureZero(temp[:])

	return &portableAES{rounds: rounds, xk: xk}
}

func (c *portableAES) BlockSize() int { return AESBlockSize }

func (c *portableAES) Encrypt(dst, src []byte) {
	if len(src) < AESBlockSize {
		panic("crypto/aes: input not full block")
	}
	if len(dst) < AESBlockSize {
		panic("crypto/aes: output not full block")
	}

	var s [16]byte
	copy(s[:], src[:AESBlockSize])

	addRoundKey(&s, c.xk[0:16])
	for r := 1; r < c.rounds; r++ {
		subBytes(&s)
		shiftRows(&s)
		mixColumns(&s)
		addRoundKey(&s, c.xk[16*r:16*r+16])
	}
	subBytes(&s)
	shiftRows(&s)
	addRoundKey(&s, c.xk[16*c.rounds:16*c.rounds+16])

	copy(dst, s[:])
	SecureZero(s[:])
}

func (c *portableAES) Decrypt(dst, src []byte) {
	if len(src) < AESBlockSize {
		panic("crypto/aes: input not full block")
	}
	if len(dst) < AESBlockSize {
		panic("crypto/aes: output not full block")
	}

	var s [16]byte
	copy(s[:], src[:AESBlockSize])

	addRoundKey(&s, c.xk[16*c.rounds:16*c.rounds+16])
	for r := c.rounds - 1; r > 0; r-- {
		invShiftRows(&s)
		invSubBytes(&s)
		addRoundKey(&s, c.xk[16*r:16*r+16])
		invMixColumns(&s)
	}
	invShiftRows(&s)
	invSubBytes(&s)
	addRoundKey(&s, c.xk[0:16])

	copy(dst, s[:])
	SecureZero(s[:])
}

// xtime multiplies by x in GF(2^8) without branching on the high bit.
func xtime(a byte) byte {
	return (a << 1) ^ (0x1b & -(a >> 7))
}

// gmul multiplies in GF(2^8) with a fixed eight iterations.
func gmul(a, b byte) byte {
	var p byte
	for i := 0; i < 8; i++ {
		p ^= a & -(b & 1)
		a = xtime(a)
		b >>= 1
	}
	return p
}

// ginv returns a^254, the multiplicative inverse of a (and 0 for 0).
func ginv(a byte) byte {
	a2 := gmul(a, a)
	a3 := gmul(a2, a)
	a6 := gmul(a3, a3)
	a12 := gmul(a6, a6)
	a15 := gmul(a12, a3)
	a30 := gmul(a15, a15)
	a60 := gmul(a30, a30)
	a120 := gmul(a60, a60)
	a240 := gmul(a120, a120)
	return gmul(gmul(a240, a12), a2)
}

func rotl8(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}

func sbox(a byte) byte {
	b := ginv(a)
	return b ^ rotl8(b, 1) ^ rotl8(b, 2) ^ rotl8(b, 3) ^ rotl8(b, 4) ^ 0x63
}

func invSbox(a byte) byte {
	return ginv(rotl8(a, 1) ^ rotl8(a, 3) ^ rotl8(a, 6) ^ 0x05)
}

func addRoundKey(s *[16]byte, rk []byte) {
	for i := range s {
		s[i] ^= rk[i]
	}
}

func subBytes(s *[16]byte) {
	for i := range s {
		s[i] = sbox(s[i])
	}
}

func invSubBytes(s *[16]byte) {
	for i := range s {
		s[i] = invSbox(s[i])
	}
}

// The state is column-major: byte r+4c holds row r of column c.
func shiftRows(s *[16]byte) {
	t := *s
	for c := 0; c < 4; c++ {
		for r := 1; r < 4; r++ {
			s[r+4*c] = t[r+4*((c+r)%4)]
		}
	}
}

func invShiftRows(s *[16]byte) {
	t := *s
	for c := 0; c < 4; c++ {
		for r := 1; r < 4; r++ {
			s[r+4*((c+r)%4)] = t[r+4*c]
		}
	}
}

func mixColumns(s *[16]byte) {
	for c := 0; c < 16; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		s[c] = xtime(a0) ^ xtime(a1) ^ a1 ^ a2 ^ a3
		s[c+1] = a0 ^ xtime(a1) ^ xtime(a2) ^ a2 ^ a3
		s[c+2] = a0 ^ a1 ^ xtime(a2) ^ xtime(a3) ^ a3
		s[c+3] = xtime(a0) ^ a0 ^ a1 ^ a2 ^ xtime(a3)
	}
}

func invMixColumns(s *[16]byte) {
	for c := 0; c < 16; c += 4 {
		a0, a1, a2, a3 := s[c], s[c+1], s[c+2], s[c+3]
		s[c] = gmul(a0, 14) ^ gmul(a1, 11) ^ gmul(a2, 13) ^ gmul(a3, 9)
		s[c+1] = gmul(a0, 9) ^ gmul(a1, 14) ^ gmul(a2, 11) ^ gmul(a3, 13)
		s[c+2] = gmul(a0, 13) ^ gmul(a1, 9) ^ gmul(a2, 14) ^ gmul(a3, 11)
		s[c+3] = gmul(a0, 11) ^ gmul(a1, 13) ^ gmul(a2, 9) ^ gmul(a3, 14)
	}
}
