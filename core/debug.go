package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a mode or backend transition for post-mortem analysis
type Event struct {
	Kind  uint8  // Event kind code
	Mode  uint8  // Sampling or unit mode involved
	Value uint32 // Kind-dependent value
}

// Event kind codes
const (
	EvtSamplingSwitch = 1 // Sampling mode changed, Value = previous mode
	EvtUnitSwitch     = 2 // Unit mode changed, Value = previous unit
	EvtBackendStart   = 3 // Backend started
	EvtBackendStop    = 4 // Backend stopped, Value = measurements taken
	EvtStartFailed    = 5 // Backend Start returned an error
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring, written from the main loop only
	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordEvent appends an event to the ring buffer. Must not be called from
// inside a Global access.
func RecordEvent(kind, mode uint8, value uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{Kind: kind, Mode: mode, Value: value}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

func (e Event) name() string {
	switch e.Kind {
	case EvtSamplingSwitch:
		return "SAMPLING"
	case EvtUnitSwitch:
		return "UNITS"
	case EvtBackendStart:
		return "START"
	case EvtBackendStop:
		return "STOP"
	case EvtStartFailed:
		return "START_FAILED!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing writes the event ring through the debug writer regardless of
// the debug flag (call on fatal errors)
func DumpEventRing() {
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] " + evt.name() +
			" mode=" + utoa(uint32(evt.Mode)) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
