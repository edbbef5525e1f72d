package ts

import (
	"errors"
	"fmt"
	"io"

	"github.com/leonlinc/pcrdrift/internal/bit"
)

const (
	PacketSize = 188
	SyncByte   = 0x47
)

var ErrSyncByte = errors.New("ts: sync byte error")

type adaptation_field struct {
	adaptation_field_length              int
	discontinuity_indicator              bool
	random_access_indicator              bool
	elementary_stream_priority_indicator bool
	PCR_flag                             bool
	OPCR_flag                            bool
	splicing_point_flag                  bool
	transport_private_data_flag          bool
	adaptation_field_extension_flag      bool
	program_clock_reference_base         int64
	program_clock_reference_extension    int64
}

// Reader decodes transport_packet() headers from a stream of 188-byte
// packets. Only the fields needed to locate the PCR are kept.
type Reader struct {
	// transport_packet()
	sync_byte                    int
	transport_error_indicator    int
	payload_unit_start_indicator int
	transport_priority           int
	PID                          int
	transport_scrambling_control int
	adaptation_field_control     int
	continuity_counter           int
	// adaptation_field()
	*adaptation_field

	rd  io.Reader
	pos int64
	pcr PcrRecord
}

func NewReader(r io.Reader) *Reader {
	return &Reader{rd: r, pos: -1}
}

// Read fills b with the next packet and decodes its header. b must hold at
// least PacketSize bytes. A packet with a bad sync byte is consumed and
// reported as ErrSyncByte so the caller may continue with the next one.
func (r *Reader) Read(b []byte) (n int, err error) {
	if len(b) < PacketSize {
		return 0, io.ErrShortBuffer
	}
	n, err = io.ReadFull(r.rd, b[:PacketSize])
	if err != nil {
		return
	}
	r.pos += 1

	br := bit.NewReader(b[:PacketSize])
	r.sync_byte = br.ReadBit(8)
	if r.sync_byte != SyncByte {
		r.adaptation_field = nil
		return n, fmt.Errorf("%w at packet %d: got 0x%02X", ErrSyncByte, r.pos, r.sync_byte)
	}
	r.transport_error_indicator = br.ReadBit(1)
	r.payload_unit_start_indicator = br.ReadBit(1)
	r.transport_priority = br.ReadBit(1)
	r.PID = br.ReadBit(13)
	r.transport_scrambling_control = br.ReadBit(2)
	r.adaptation_field_control = br.ReadBit(2)
	r.continuity_counter = br.ReadBit(4)
	if r.adaptation_field_control == 2 || r.adaptation_field_control == 3 {
		r.adaptation_field = &adaptation_field{}
		r.adaptation_field_length = br.ReadBit(8)
		if r.adaptation_field_length > 0 {
			r.discontinuity_indicator = (br.ReadBit(1) != 0)
			r.random_access_indicator = (br.ReadBit(1) != 0)
			r.elementary_stream_priority_indicator = (br.ReadBit(1) != 0)
			r.PCR_flag = (br.ReadBit(1) != 0)
			r.OPCR_flag = (br.ReadBit(1) != 0)
			r.splicing_point_flag = (br.ReadBit(1) != 0)
			r.transport_private_data_flag = (br.ReadBit(1) != 0)
			r.adaptation_field_extension_flag = (br.ReadBit(1) != 0)
			// flags byte + 6 byte PCR
			if r.adaptation_field_length < 7 {
				r.PCR_flag = false
			}
			if r.PCR_flag {
				r.program_clock_reference_base = br.ReadBit64(33)
				br.SkipBit(6)
				r.program_clock_reference_extension = br.ReadBit64(9)
				pcr := ComputePcr(r.program_clock_reference_base, r.program_clock_reference_extension)
				r.pcr = PcrRecord{Pid: r.PID, Pos: r.pos, Pcr: pcr}
			}
		}
	} else {
		r.adaptation_field = nil
	}
	return
}

// Pos returns the zero-based index of the last packet read.
func (r *Reader) Pos() int64 {
	return r.pos
}

func (r *Reader) Pcr() (PcrRecord, bool) {
	if r.adaptation_field != nil && r.PCR_flag {
		return r.pcr, true
	}
	return PcrRecord{}, false
}
