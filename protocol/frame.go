package protocol

import "errors"

var (
	ErrBadFrame = errors.New("malformed message block")
	ErrBadCRC   = errors.New("message block CRC mismatch")
)

// FrameHandler receives the payload of one verified block. The payload is
// only valid for the duration of the call.
type FrameHandler func(seq uint8, payload []byte) error

// EncodeFrame writes one message block whose payload is produced by body.
// Only the low four bits of seq are sent.
func EncodeFrame(output OutputBuffer, seq uint8, body func(output OutputBuffer)) {
	cursor := output.CurPosition()

	// Length is patched once the payload size is known
	output.Output([]byte{0, MessageDest | seq&MessageSeqMask})
	body(output)

	length := len(output.DataSince(cursor)) + MessageTrailerSize
	output.Update(cursor+MessagePositionLen, uint8(length))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// Decoder splits a byte stream into message blocks. A block that fails any
// check drops the decoder out of sync; it then discards input up to the next
// sync byte.
type Decoder struct {
	synchronized bool
	handler      FrameHandler

	frames  uint32
	dropped uint32
	lastErr error
}

// NewDecoder creates a synchronized decoder delivering blocks to handler
func NewDecoder(handler FrameHandler) *Decoder {
	return &Decoder{
		synchronized: true,
		handler:      handler,
	}
}

// Receive consumes every complete block in input. A partial block at the end
// is left in input for the next call.
func (d *Decoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync(ErrBadFrame)
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync(ErrBadFrame)
			continue
		}

		if len(data) < msgLen {
			break // Wait for the rest
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync(ErrBadFrame)
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync(ErrBadCRC)
			continue
		}

		payload := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		if d.handler != nil {
			if err := d.handler(seq&MessageSeqMask, payload); err != nil {
				// Framing was sound, stay in sync
				d.dropped++
				d.lastErr = err
				continue
			}
		}
		d.frames++
	}

	if consumed := input.Available() - len(data); consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *Decoder) desync(err error) {
	d.synchronized = false
	d.dropped++
	d.lastErr = err
}

// Synchronized reports whether the decoder is aligned on block boundaries
func (d *Decoder) Synchronized() bool {
	return d.synchronized
}

// Frames returns the number of blocks delivered
func (d *Decoder) Frames() uint32 {
	return d.frames
}

// Dropped returns the number of blocks rejected
func (d *Decoder) Dropped() uint32 {
	return d.dropped
}

// Err returns the reason the most recent block was rejected
func (d *Decoder) Err() error {
	return d.lastErr
}
