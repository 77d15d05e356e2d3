package core

import "errors"

var ErrBCDRange = errors.New("bcd: value out of range (0-99)")

// ToBCD converts a two digit number to packed BCD: tens in the high nibble,
// ones in the low nibble. Inputs above 99 return ErrBCDRange.
//
// Double dabble: the source bits are shifted in MSB first, and before each
// shift any digit of 5 or more gets 3 added so that it carries into the next
// nibble instead of leaving the 0-9 range.
func ToBCD(n uint8) (uint8, error) {
	if n > 99 {
		return 0, ErrBCDRange
	}

	var bcd uint8
	for i := 7; i >= 0; i-- {
		if bcd&0x0F >= 0x05 {
			bcd += 0x03
		}
		if bcd&0xF0 >= 0x50 {
			bcd += 0x30
		}
		bcd = bcd<<1 | (n>>uint(i))&1
	}
	return bcd, nil
}

// FromBCD decodes a packed BCD byte produced by ToBCD.
func FromBCD(b uint8) uint8 {
	return (b>>4)*10 + b&0x0F
}
