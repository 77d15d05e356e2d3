package core

// Button is a logical key of the LCD keypad.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonSelect
)

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "RIGHT"
	case ButtonUp:
		return "UP"
	case ButtonDown:
		return "DOWN"
	case ButtonLeft:
		return "LEFT"
	case ButtonSelect:
		return "SELECT"
	default:
		return "NONE"
	}
}

// Upper bounds of each key's voltage band on the keypad resistor ladder,
// as 12-bit ADC counts. Keys are read on a single analog pin; the ladder
// puts RIGHT at 0 V and no key at full scale.
const (
	keypadRightMax  = 288
	keypadUpMax     = 946
	keypadDownMax   = 1668
	keypadLeftMax   = 2492
	keypadSelectMax = 3528
)

// ClassifyButton maps a raw 12-bit keypad reading to a logical button.
func ClassifyButton(raw uint16) Button {
	switch {
	case raw < keypadRightMax:
		return ButtonRight
	case raw < keypadUpMax:
		return ButtonUp
	case raw < keypadDownMax:
		return ButtonDown
	case raw < keypadLeftMax:
		return ButtonLeft
	case raw < keypadSelectMax:
		return ButtonSelect
	default:
		return ButtonNone
	}
}
