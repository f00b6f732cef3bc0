// hwgate_default.go: Accelerated paths allowed; selection is left to the probe.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build !purego

package crypto

const purego = false
