package protocol

// Report is the telemetry record of one polling cycle. Sampling and Unit
// carry the firmware's mode values.
type Report struct {
	Sequence  uint32
	Sampling  uint8
	Unit      uint8
	Frequency float32 // Hz
	Speed     float32 // in Unit
}

// EncodeReport writes r as one message block
func EncodeReport(output OutputBuffer, r Report) {
	EncodeFrame(output, uint8(r.Sequence), func(output OutputBuffer) {
		EncodeVLQUint(output, ReportID)
		EncodeVLQUint(output, r.Sequence)
		EncodeVLQUint(output, uint32(r.Sampling))
		EncodeVLQUint(output, uint32(r.Unit))
		EncodeVLQFloat32(output, r.Frequency)
		EncodeVLQFloat32(output, r.Speed)
	})
}

// DecodeReport parses a block payload written by EncodeReport
func DecodeReport(payload []byte) (Report, error) {
	var r Report

	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	if id != ReportID {
		return r, ErrBadFrame
	}

	if r.Sequence, err = DecodeVLQUint(&payload); err != nil {
		return r, err
	}

	sampling, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	unit, err := DecodeVLQUint(&payload)
	if err != nil {
		return r, err
	}
	if sampling > 1 || unit > 1 {
		return r, ErrBadFrame
	}
	r.Sampling, r.Unit = uint8(sampling), uint8(unit)

	if r.Frequency, err = DecodeVLQFloat32(&payload); err != nil {
		return r, err
	}
	if r.Speed, err = DecodeVLQFloat32(&payload); err != nil {
		return r, err
	}

	if len(payload) != 0 {
		return r, ErrBadFrame
	}
	return r, nil
}

// NewReportDecoder returns a Decoder that delivers each valid report to
// handle. Blocks whose header sequence disagrees with the report are
// rejected with ErrBadFrame.
func NewReportDecoder(handle func(Report)) *Decoder {
	return NewDecoder(func(seq uint8, payload []byte) error {
		r, err := DecodeReport(payload)
		if err != nil {
			return err
		}
		if uint8(r.Sequence)&MessageSeqMask != seq {
			return ErrBadFrame
		}
		handle(r)
		return nil
	})
}
