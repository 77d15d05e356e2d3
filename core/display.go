package core

import "strconv"

// DisplayWidth is the number of visible characters per LCD row.
const DisplayWidth = 16

// DisplayLine is one row of display text. Writes past DisplayWidth are
// dropped without error.
type DisplayLine struct {
	buf [DisplayWidth]byte
	n   int
}

// Write appends p, truncating at DisplayWidth. It always reports len(p).
func (l *DisplayLine) Write(p []byte) (int, error) {
	l.n += copy(l.buf[l.n:], p)
	return len(p), nil
}

// WriteString is Write for strings.
func (l *DisplayLine) WriteString(s string) (int, error) {
	l.n += copy(l.buf[l.n:], s)
	return len(s), nil
}

// Len returns the number of characters held.
func (l *DisplayLine) Len() int {
	return l.n
}

// Bytes returns the characters held.
func (l *DisplayLine) Bytes() []byte {
	return l.buf[:l.n]
}

func (l *DisplayLine) String() string {
	return string(l.buf[:l.n])
}

// Padded returns the row filled with spaces to the full width, so writing it
// overwrites whatever the previous refresh left on the LCD.
func (l *DisplayLine) Padded() [DisplayWidth]byte {
	out := l.buf
	for i := l.n; i < DisplayWidth; i++ {
		out[i] = ' '
	}
	return out
}

// Reset empties the row.
func (l *DisplayLine) Reset() {
	l.n = 0
}

// Row layouts: label, field width and decimals. Each fills exactly one row
// while the integer part has at most three digits.
type rowFormat struct {
	label string
	width int
	prec  int
}

var (
	comparatorRow = rowFormat{"COMP f: ", 8, 4}
	sampledRow    = rowFormat{"ADC f: ", 9, 5}
	metricRow     = rowFormat{"kmph: ", 10, 6}
	imperialRow   = rowFormat{"mph: ", 11, 7}
)

func (f rowFormat) render(line *DisplayLine, v float64) {
	var scratch [32]byte
	out := append(scratch[:0], f.label...)
	start := len(out)
	out = strconv.AppendFloat(out, v, 'f', f.prec, 64)
	// Left-aligned within the field
	for len(out)-start < f.width {
		out = append(out, ' ')
	}
	line.Write(out)
}

// FormatRows renders the two display rows: the detection source with its
// frequency, and the unit with the speed. Values of 1000 or more do not fit
// and lose their trailing digits.
func FormatRows(frequency, speed float64, sampling SamplingMode, unit UnitMode) (row1, row2 DisplayLine) {
	if sampling == ComparatorEdge {
		comparatorRow.render(&row1, frequency)
	} else {
		sampledRow.render(&row1, frequency)
	}

	if unit == Imperial {
		imperialRow.render(&row2, speed)
	} else {
		metricRow.render(&row2, speed)
	}
	return row1, row2
}
