// pool.go: Wiped buffer pooling for per-block KDF scratch
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"sync"
)

// Pools only ever hold zeroed memory: buffers are wiped with SecureZero before
// they go back. They serve small temporaries (PBKDF2 U blocks, HKDF T blocks)
// and are never used for the Scrypt scratch array, which is sized per call.
var (
	// Buffer sized for a single digest output or a 256-bit key
	smallBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 64)
			return &buf
		},
	}

	// Buffer sized for a hash block plus counter and info
	mediumBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 512)
			return &buf
		},
	}

	dynamicBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, 256)
			return &buf // pointer avoids an allocation on Put (SA6002)
		},
	}
)

// init warms the pools so the first derivation does not pay for allocation
func init() {
	WarmupPools(4)
}

// getBuffer retrieves a buffer of exactly size bytes
func getBuffer(size int) *[]byte {
	switch {
	case size <= 64:
		buf := smallBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	case size <= 512:
		buf := mediumBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	default:
		buf := make([]byte, size)
		return &buf
	}
}

// putBuffer wipes the whole backing array and returns it to its pool
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	full := (*buf)[:cap(*buf)]
	SecureZero(full)

	switch cap(full) {
	case 64:
		smallBufferPool.Put(buf)
	case 512:
		mediumBufferPool.Put(buf)
		// Other sizes are left to the garbage collector
	}
}

// getDynamicBuffer retrieves an empty buffer that can grow
func getDynamicBuffer() []byte {
	buf := dynamicBufferPool.Get().(*[]byte)
	return (*buf)[:0]
}

// putDynamicBuffer wipes a dynamic buffer and returns it to the pool
func putDynamicBuffer(buf []byte) {
	bufCap := cap(buf)
	if bufCap == 0 {
		return
	}
	SecureZero(buf[:bufCap])

	if bufCap <= 4*1024 && bufCap >= 128 {
		dynamicBufferPool.Put(&buf)
	}
}

// WarmupPools pre allocates buffers in the pools to reduce cold latency
func WarmupPools(count int) {
	smallBufs := make([]*[]byte, count)
	mediumBufs := make([]*[]byte, count)
	dynamicBufs := make([][]byte, count)

	for i := 0; i < count; i++ {
		smallBufs[i] = getBuffer(64)
		mediumBufs[i] = getBuffer(512)
		dynamicBufs[i] = getDynamicBuffer()
	}

	for i := 0; i < count; i++ {
		putBuffer(smallBufs[i])
		putBuffer(mediumBufs[i])
		putDynamicBuffer(dynamicBufs[i])
	}
}
