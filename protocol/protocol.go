// Package protocol implements the telemetry link between the radar firmware
// and the host monitor: Klipper-style message blocks carrying VLQ encoded
// reports.
package protocol

// Version is the telemetry protocol version
const Version = "0.1.0"

// Message block layout:
//
//	<len> <0x10|seq> <payload...> <crc_hi> <crc_lo> <0x7E>
//
// len counts the whole block. The CRC covers len, seq and payload.
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// MessageMax is the scratch buffer size, enough for several blocks
	MessageMax = 256

	// Message sequence masks
	MessageSeqMask  = 0x0F
	MessageSeqShift = 4
)

// Payload identifiers, the first VLQ of every block
const (
	ReportID = 1 // One polling cycle, see Report
)
