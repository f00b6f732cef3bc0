// hwgate_purego.go: Build-time switch that disables every accelerated path.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build purego

package crypto

const purego = true
