package core

// utoa converts an unsigned integer to a string without using fmt.
// This is a lightweight alternative for embedded systems
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// hz renders a frequency with one decimal, for debug lines
func hz(f float64) string {
	if !(f >= 0) || f > 4e8 {
		return "?"
	}
	tenths := uint32(f*10 + 0.5)
	return utoa(tenths/10) + "." + utoa(tenths%10) + "Hz"
}
