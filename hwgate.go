// hwgate.go: One-time hardware capability probe and implementation dispatch.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Capabilities describes the accelerated instruction paths available on the
// running processor. A false field only means the portable implementation is
// used; output is identical either way.
type Capabilities struct {
	// AES is true when the CPU exposes AES round instructions (AES-NI on x86,
	// the ARMv8 crypto extension, or CPACF on s390x).
	AES bool `json:"aes"`

	// Purego is true when the package was built with the purego tag and every
	// accelerated path is disabled at compile time.
	Purego bool `json:"purego"`
}

// capabilities is computed at most once per process. sync.OnceValue makes
// concurrent first callers wait for the single probe and observe its result.
var capabilities = sync.OnceValue(probeCapabilities)

func probeCapabilities() Capabilities {
	if purego {
		return Capabilities{Purego: true}
	}
	return Capabilities{
		AES: cpu.X86.HasAES || cpu.ARM64.HasAES || cpu.S390X.HasAES,
	}
}

// HardwareCapabilities returns the cached result of the capability probe.
//
// Detection never fails: on platforms where x/sys/cpu cannot query features
// every field stays false and the portable code paths are selected.
func HardwareCapabilities() Capabilities {
	return capabilities()
}
