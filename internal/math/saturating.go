// Package math provides the saturating/checked integer helpers the engine
// uses anywhere an overflow must become a detectable error or a capped
// value instead of silently wrapping, generalizing the teacher's
// (arwen-wasm-vm/.../math) helpers used throughout buffer-bounds and gas
// arithmetic (see e.g. arwen/contexts/runtime.go's math.AddInt32 at memory
// bounds checks).
package math

import "math"

// AddInt32 returns a+b, saturating at math.MaxInt32 on overflow (and at
// math.MinInt32 on underflow), the shape of the teacher's call sites in
// MemLoad/MemStore. No package in this module calls it.
func AddInt32(a, b int32) int32 {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	return int32(sum)
}

// AddUint64 returns a+b, saturating at math.MaxUint64 on overflow.
func AddUint64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

// SubUint64 returns a-b, saturating at zero on underflow.
func SubUint64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// MulUint64 returns a*b, saturating at math.MaxUint64 on overflow.
func MulUint64(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/a != b {
		return math.MaxUint64
	}
	return product
}

// AddUint64Checked returns a+b and false if the addition would overflow,
// for call sites that must reject rather than saturate (e.g. gas-cost
// schedule validation at load time).
func AddUint64Checked(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

// MulUint64Checked returns a*b and false if the multiplication would
// overflow.
func MulUint64Checked(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product := a * b
	return product, product/a == b
}
