// main.go: Command cryptoutil derives keys from a length-prefixed stdin payload.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Command cryptoutil runs a key derivation function over a salt and password
// read from standard input and writes the derived key to standard output.
//
// Standard input holds two length-prefixed fields:
//
//	[4 byte big-endian salt length][salt][4 byte big-endian password length][password]
//
// With --rawsalt / --rawpassword the field bytes are used as they are;
// otherwise each field carries hex text that is decoded first. With
// --rawoutput the key bytes are written unframed; otherwise as one hex line.
// Diagnostics go to standard error and any fault exits non-zero.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"

	"github.com/agilira/go-timecache"
	"github.com/awnumar/memguard"

	crypto "github.com/agilira/cryptocore"
)

// maxFieldLen bounds each stdin field so a bogus length prefix cannot force a
// huge allocation.
const maxFieldLen = 64 << 20

const (
	exitOK    = 0
	exitFault = 1
	exitUsage = 2
)

func main() {
	memguard.CatchInterrupt()
	code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	memguard.Purge()
	os.Exit(code)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	case "scrypt":
		return runScrypt(args[1:], stdin, stdout, stderr)
	case "pbkdf2":
		return runPBKDF2(args[1:], stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown algorithm %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: cryptoutil <algorithm> [options]
-h, --help	Usage

Algorithms:
 * Scrypt (scrypt)
 * PBKDF2 (pbkdf2)

Scrypt options:
--logn		The Log N parameter
-r		The R parameter
-p		The P parameter
--dklen		The DkLen parameter
--maxmem	Scratch memory ceiling in bytes (0 = library default)

PBKDF2 options:
--hash		sha1, sha256 or sha512 (default sha256)
-c		The iteration count
--dklen		The DkLen parameter

Common options:
--rawsalt	The salt field on STDIN is raw bytes rather than hex
--rawpassword	The password field on STDIN is raw bytes rather than hex
--rawoutput	Write the derived key directly to STDOUT rather than as hex
--verbose	Log parameters and timing to STDERR
`)
}

// commonFlags are shared by every algorithm.
type commonFlags struct {
	dkLen       int
	rawSalt     bool
	rawPassword bool
	rawOutput   bool
	verbose     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&c.dkLen, "dklen", -1, "length of the derived key in bytes")
	fs.BoolVar(&c.rawSalt, "rawsalt", false, "salt field is raw bytes")
	fs.BoolVar(&c.rawPassword, "rawpassword", false, "password field is raw bytes")
	fs.BoolVar(&c.rawOutput, "rawoutput", false, "write the key as raw bytes")
	fs.BoolVar(&c.verbose, "verbose", false, "log parameters and timing")
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	return fs
}

// parseFlags returns the exit code to use when parsing ends the run.
func parseFlags(fs *flag.FlagSet, args []string, stdout io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return exitOK, false
		}
		return exitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return exitUsage, false
	}
	return 0, true
}

func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func runScrypt(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("scrypt", stderr)
	var common commonFlags
	common.register(fs)
	logN := fs.Int("logn", -1, "log2 of the N parameter")
	r := fs.Int("r", -1, "block size parameter")
	p := fs.Int("p", -1, "parallelism parameter")
	maxMem := fs.Uint64("maxmem", 0, "scratch memory ceiling in bytes")
	if code, ok := parseFlags(fs, args, stdout); !ok {
		return code
	}
	log := newLogger(stderr, common.verbose)

	if *logN < 0 || *r < 0 || *p < 0 || common.dkLen < 0 {
		log.Error("missing required option", "required", "--logn -r -p --dklen")
		return exitUsage
	}
	if *logN > 255 {
		log.Error("invalid parameter", "err", fmt.Sprintf("--logn %d out of range", *logN))
		return exitFault
	}

	params, err := crypto.NewScryptParams(uint8(*logN), *r, *p) // #nosec G115 -- range checked above
	if err == nil && *maxMem != 0 {
		params.MaxMemory = *maxMem
		err = params.Validate()
	}
	if err != nil {
		log.Error("invalid parameters", "err", err)
		return exitFault
	}
	log.Debug("scrypt parameters", "n", params.N, "r", params.R, "p", params.P,
		"dklen", common.dkLen, "memory", params.RequiredMemory())

	return derive(log, common, stdin, stdout, func(password, salt []byte) ([]byte, error) {
		return crypto.Scrypt(password, salt, params, common.dkLen)
	})
}

func runPBKDF2(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("pbkdf2", stderr)
	var common commonFlags
	common.register(fs)
	hashName := fs.String("hash", "sha256", "sha1, sha256 or sha512")
	iterations := fs.Int("c", -1, "iteration count")
	if code, ok := parseFlags(fs, args, stdout); !ok {
		return code
	}
	log := newLogger(stderr, common.verbose)

	if *iterations < 0 || common.dkLen < 0 {
		log.Error("missing required option", "required", "-c --dklen")
		return exitUsage
	}
	prf, err := hashByName(*hashName)
	if err != nil {
		log.Error("invalid parameters", "err", err)
		return exitFault
	}
	log.Debug("pbkdf2 parameters", "hash", *hashName, "c", *iterations, "dklen", common.dkLen)

	return derive(log, common, stdin, stdout, func(password, salt []byte) ([]byte, error) {
		return crypto.PBKDF2(prf, password, salt, *iterations, common.dkLen)
	})
}

func hashByName(name string) (func() hash.Hash, error) {
	switch name {
	case "sha1":
		return crypto.NewSHA1, nil
	case "sha256":
		return crypto.NewSHA256, nil
	case "sha512":
		return crypto.NewSHA512, nil
	}
	return nil, fmt.Errorf("%w: unknown hash %q", crypto.ErrInvalidParameter, name)
}

// derive reads the payload into locked memory, runs kdf and writes the key.
func derive(log *slog.Logger, common commonFlags, stdin io.Reader, stdout io.Writer, kdf func(password, salt []byte) ([]byte, error)) int {
	salt, err := readField(stdin, "salt", common.rawSalt)
	if err != nil {
		log.Error("failed to read input", "err", err)
		return exitFault
	}
	defer salt.Destroy()

	password, err := readField(stdin, "password", common.rawPassword)
	if err != nil {
		log.Error("failed to read input", "err", err)
		return exitFault
	}
	defer password.Destroy()

	start := timecache.CachedTime()
	dk, err := kdf(password.Bytes(), salt.Bytes())
	if err != nil {
		log.Error("derivation failed", "err", err)
		return exitFault
	}
	defer crypto.SecureZero(dk)
	log.Debug("derived key", "elapsed", timecache.CachedTime().Sub(start),
		"fingerprint", crypto.GetKeyFingerprint(dk))

	if common.rawOutput {
		_, err = stdout.Write(dk)
	} else {
		_, err = fmt.Fprintln(stdout, crypto.KeyToHex(dk))
	}
	if err != nil {
		log.Error("error writing result", "err", err)
		return exitFault
	}
	return exitOK
}

// readField reads one length-prefixed field and moves it into a locked
// buffer. The plain copy is wiped before returning.
func readField(r io.Reader, name string, raw bool) (*memguard.LockedBuffer, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("reading %s length: %w", name, err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxFieldLen {
		return nil, fmt.Errorf("%s length %d exceeds %d bytes", name, n, maxFieldLen)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		crypto.SecureZero(buf)
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if !raw {
		decoded := make([]byte, hex.DecodedLen(len(buf)))
		_, err := hex.Decode(decoded, buf)
		crypto.SecureZero(buf)
		if err != nil {
			crypto.SecureZero(decoded)
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		buf = decoded
	}

	// NewBufferFromBytes wipes buf.
	return memguard.NewBufferFromBytes(buf), nil
}
