// Package morton interleaves the bits of a grid cell's column and row into a
// single Z-order key, so cells that are close in the grid get close keys.
package morton

import "math"

type Z = uint

var (
	masks = [...]uint{
		0b0101010101010101010101010101010101010101010101010101010101010101,
		0b0011001100110011001100110011001100110011001100110011001100110011,
		0b0000111100001111000011110000111100001111000011110000111100001111,
		0b0000000011111111000000001111111100000000111111110000000011111111,
		0b0000000000000000111111111111111100000000000000001111111111111111,
	}
	shifts = [...]uint{1, 2, 4, 8, 16}
)

// ToZ interleaves x (even bits) and y (odd bits). Not ok when either exceeds 32 bits.
func ToZ(x, y uint) (z Z, ok bool) {
	ok = x <= math.MaxUint32 && y <= math.MaxUint32
	for i := 4; i >= 0; i-- {
		x = (x | (x << shifts[i])) & masks[i]
		y = (y | (y << shifts[i])) & masks[i]
	}
	z = x | (y << 1)
	return z, ok
}

// FromCell is ToZ for a column and row. Negative cells have no key.
func FromCell(col, row int) (Z, bool) {
	if col < 0 || row < 0 {
		return 0, false
	}
	return ToZ(uint(col), uint(row))
}
