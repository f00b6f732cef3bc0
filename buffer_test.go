// buffer_test.go: Buffered block processor tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect records every block handed to the callback.
type collect struct{ blocks [][]byte }

func (c *collect) fn(block []byte) { c.blocks = append(c.blocks, bytes.Clone(block)) }

func (c *collect) joined() []byte { return bytes.Join(c.blocks, nil) }

func TestBlockBuffer_ChunkInvariance(t *testing.T) {
	msg := make([]byte, 103)
	for i := range msg {
		msg[i] = byte(i)
	}

	var whole collect
	ref := NewBlockBuffer(8, 0)
	require.NoError(t, ref.Input(msg, whole.fn))

	for _, chunk := range []int{1, 3, 7, 8, 9, 16, 50} {
		var got collect
		b := NewBlockBuffer(8, 0)
		for p := msg; len(p) > 0; {
			n := min(chunk, len(p))
			require.NoError(t, b.Input(p[:n], got.fn))
			p = p[n:]
			assert.Less(t, b.Len(), 8)
		}
		assert.Equal(t, whole.blocks, got.blocks, "chunk size %d", chunk)
		assert.Equal(t, ref.Pending(), b.Pending())
		assert.Equal(t, uint64(len(msg)), b.Count())
	}

	assert.Len(t, whole.blocks, 12)
	assert.Equal(t, msg[:96], whole.joined())
	assert.Equal(t, msg[96:], ref.Pending())
}

func TestBlockBuffer_EmptyInput(t *testing.T) {
	b := NewBlockBuffer(16, 0)
	calls := 0
	require.NoError(t, b.Input(nil, func([]byte) { calls++ }))
	require.NoError(t, b.Input([]byte{}, func([]byte) { calls++ }))
	assert.Zero(t, calls)
	assert.Zero(t, b.Count())
}

func TestBlockBuffer_Limit(t *testing.T) {
	b := NewBlockBuffer(4, 10)
	var got collect
	require.NoError(t, b.Input(make([]byte, 6), got.fn))

	err := b.Input(make([]byte, 5), got.fn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthLimit))

	// Nothing from the rejected call was applied.
	assert.Equal(t, uint64(6), b.Count())
	assert.Equal(t, 2, b.Len())
	assert.Len(t, got.blocks, 1)

	require.NoError(t, b.Input(make([]byte, 4), got.fn))
	assert.Equal(t, uint64(10), b.Count())
}

func TestBlockBuffer_HoldLast(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		wantBlocks  int
		wantPending int
	}{
		{"empty", 0, 0, 0},
		{"partial", 5, 0, 5},
		{"one block", 8, 0, 8},
		{"block and a bit", 9, 1, 1},
		{"two blocks", 16, 1, 8},
		{"three blocks", 24, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := bytes.Repeat([]byte{0xab}, tt.length)
			for _, chunk := range []int{1, 3, 8, 100} {
				var got collect
				b := NewBlockBuffer(8, 0)
				for p := msg; len(p) > 0; {
					n := min(chunk, len(p))
					require.NoError(t, b.InputHoldLast(p[:n], got.fn))
					p = p[n:]
				}
				assert.Len(t, got.blocks, tt.wantBlocks, "chunk %d", chunk)
				assert.Equal(t, tt.wantPending, b.Len(), "chunk %d", chunk)
			}
		})
	}
}

func TestBlockBuffer_Reset(t *testing.T) {
	b := NewBlockBuffer(8, 0)
	require.NoError(t, b.Input([]byte("secret"), func([]byte) {}))
	backing := b.buf

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Count())
	assert.Equal(t, make([]byte, 8), backing, "pending bytes must be wiped")
}

func TestNewBlockBuffer_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { NewBlockBuffer(0, 0) })
	assert.Panics(t, func() { NewBlockBuffer(-1, 0) })
}
