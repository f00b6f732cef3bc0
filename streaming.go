// streaming.go: io.Writer and io.Reader adapters around a Crypter.
//
// The adapters let a mode driver sit in an io.Copy pipeline so large inputs
// are transformed chunk by chunk instead of being loaded into memory.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"errors"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// DefaultChunkSize is the read size used by NewCipherReader (64KB).
const DefaultChunkSize = 64 * 1024

// cipherWriter implements io.WriteCloser on top of a Crypter.
type cipherWriter struct {
	w      io.Writer
	c      Crypter
	buf    []byte
	closed bool
}

// NewCipherWriter returns a writer that passes everything written to it
// through c and forwards the output to w. Close must be called to flush the
// final block; it does not close w.
//
// Example:
//
//	enc, _ := crypto.NewCBCEncrypter(block, iv, nil)
//	cw := crypto.NewCipherWriter(file, enc)
//	if _, err := io.Copy(cw, plaintext); err != nil {
//		return err
//	}
//	return cw.Close()
func NewCipherWriter(w io.Writer, c Crypter) io.WriteCloser {
	return &cipherWriter{w: w, c: c}
}

// Write transforms p and writes the completed output to the underlying writer.
func (cw *cipherWriter) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, errFinished
	}
	out, err := cw.c.Update(cw.buf[:0], p)
	cw.buf = out
	if err != nil {
		return 0, err
	}
	if err := cw.flush(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close finishes the Crypter and writes its last output.
func (cw *cipherWriter) Close() error {
	if cw.closed {
		return nil
	}
	out, err := cw.c.Finish(cw.buf[:0])
	cw.buf = out
	if err != nil {
		return err
	}
	cw.closed = true
	err = cw.flush()
	SecureZero(cw.buf[:cap(cw.buf)])
	return err
}

func (cw *cipherWriter) flush() error {
	if len(cw.buf) == 0 {
		return nil
	}
	if _, err := cw.w.Write(cw.buf); err != nil {
		return goerrors.Wrap(err, "STREAM_WRITE_FAILED", "failed to write transformed data")
	}
	SecureZero(cw.buf)
	return nil
}

// cipherReader implements io.Reader on top of a Crypter.
type cipherReader struct {
	r       io.Reader
	c       Crypter
	in      []byte
	out     []byte
	pending []byte
	err     error
}

// NewCipherReader returns a reader that yields r's content transformed by c.
// c is finished when r reports io.EOF, so padding errors surface from the
// last Read call.
//
// Example:
//
//	dec, _ := crypto.NewCBCDecrypter(block, iv, nil)
//	if _, err := io.Copy(plaintextFile, crypto.NewCipherReader(file, dec)); err != nil {
//		return err // crypto.ErrInvalidPadding on a corrupt final block
//	}
func NewCipherReader(r io.Reader, c Crypter) io.Reader {
	return &cipherReader{r: r, c: c, in: make([]byte, DefaultChunkSize)}
}

// Read fills p with transformed bytes.
func (cr *cipherReader) Read(p []byte) (int, error) {
	for len(cr.pending) == 0 {
		if cr.err != nil {
			return 0, cr.err
		}
		cr.fill()
	}
	n := copy(p, cr.pending)
	SecureZero(cr.pending[:n])
	cr.pending = cr.pending[n:]
	return n, nil
}

// fill reads one chunk from the source and transforms it.
func (cr *cipherReader) fill() {
	n, rerr := cr.r.Read(cr.in)
	out, err := cr.c.Update(cr.out[:0], cr.in[:n])
	SecureZero(cr.in[:n])
	if err != nil {
		cr.err = err
		return
	}
	if errors.Is(rerr, io.EOF) {
		out, err = cr.c.Finish(out)
		if err != nil {
			SecureZero(out)
			cr.err = err
			return
		}
		cr.err = io.EOF
	} else if rerr != nil {
		cr.err = goerrors.Wrap(rerr, "STREAM_READ_FAILED", "failed to read source data")
	}
	cr.out = out
	cr.pending = out
}
