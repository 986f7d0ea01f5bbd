// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pyhash computes the hash values CPython 2.7 assigns to
// strings, numbers and booleans on a 64-bit build (C long is 64 bits,
// unicode is UCS4) with hash randomization disabled.
//
// Every function returns the interpreter's signed C long reinterpreted
// as an unsigned 64-bit integer, which is how the dict implementation
// consumes hashes when it folds them into a bucket index.
package pyhash

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"
)

const (
	// multiplier of the string hash
	mult = 1000003

	// digit width of CPython 2.7 longs on 64-bit builds
	longShift = 30

	infHash    = 314159
	negInfHash = -271828
)

// fix replaces -1, which the C API reserves as an error indicator, with -2.
func fix(x uint64) uint64 {
	if x == math.MaxUint64 {
		return math.MaxUint64 - 1
	}
	return x
}

// String returns the hash of s as a byte string (Python 2 str).
func String(s string) uint64 {
	if len(s) == 0 {
		return 0
	}
	x := uint64(s[0]) << 7
	for i := 0; i < len(s); i++ {
		x = (mult * x) ^ uint64(s[i])
	}
	x ^= uint64(len(s))
	return fix(x)
}

// Unicode returns the hash of s as a unicode string. Each code point is
// one unit of the hash, as on UCS4 builds.
func Unicode(s string) uint64 {
	var (
		x uint64
		n int
	)
	for _, r := range s {
		if n == 0 {
			x = uint64(r) << 7
		}
		x = (mult * x) ^ uint64(r)
		n++
	}
	if n == 0 {
		return 0
	}
	x ^= uint64(n)
	return fix(x)
}

// Int returns the hash of a signed integer. Small ints hash to
// themselves.
func Int[T constraints.Signed](v T) uint64 {
	return fix(uint64(int64(v)))
}

// Uint returns the hash of an unsigned integer. Values that do not fit
// in a C long are hashed the way the interpreter hashes longs.
func Uint[T constraints.Unsigned](v T) uint64 {
	u := uint64(v)
	if u <= math.MaxInt64 {
		return fix(u)
	}
	return long(new(big.Int).SetUint64(u))
}

// Long returns the hash of an arbitrary precision integer.
func Long(v *big.Int) uint64 {
	if v.IsInt64() {
		return Int(v.Int64())
	}
	return long(v)
}

func long(v *big.Int) uint64 {
	mag := new(big.Int).Abs(v)
	digitMask := big.NewInt(1<<longShift - 1)
	var digits []uint64
	for mag.Sign() > 0 {
		digits = append(digits, new(big.Int).And(mag, digitMask).Uint64())
		mag.Rsh(mag, longShift)
	}
	var x uint64
	for i := len(digits) - 1; i >= 0; i-- {
		x = x<<longShift | x>>(64-longShift)
		x += digits[i]
		if x < digits[i] {
			x++
		}
	}
	if v.Sign() < 0 {
		x = -x
	}
	return fix(x)
}

// Float returns the hash of a floating point number. Integral values
// hash like the equal integer so that 2.0 and 2 collide, as they do in
// the interpreter.
func Float[T constraints.Float](v T) uint64 {
	f := float64(v)
	switch {
	case math.IsInf(f, 1):
		return infHash
	case math.IsInf(f, -1):
		return Int(int64(negInfHash))
	case math.IsNaN(f):
		return 0
	}
	intpart, fracpart := math.Modf(f)
	if fracpart == 0 {
		if intpart > math.MaxInt64/2 || -intpart > math.MaxInt64/2 {
			b, _ := new(big.Float).SetFloat64(intpart).Int(nil)
			return Long(b)
		}
		return Int(int64(intpart))
	}
	m, exp := math.Frexp(f)
	m *= 2147483648.0 // 2**31
	hipart := int64(m)
	m = (m - float64(hipart)) * 2147483648.0
	return Int(hipart + int64(m) + int64(exp)<<15)
}

// None is the hash used for None. The interpreter hashes None by its
// object address rotated right by four bits, so the real value depends
// on the build. None fixes it at the value for address 0x8a5f30.
const None uint64 = 0x8a5f30 >> 4

// Bool returns the hash of a boolean, which is the hash of 0 or 1.
func Bool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
