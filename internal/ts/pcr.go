package ts

// PCR values are sampled from a 27 MHz clock; the base field counts at 90 kHz.
const PcrExtPerBase = 300

type PcrRecord struct {
	Pid int
	Pos int64
	Pcr int64
}

func ComputePcr(base, ext int64) int64 {
	return base*PcrExtPerBase + ext
}

// Base returns the PCR on the 90 kHz scale.
func (r PcrRecord) Base() int64 {
	return r.Pcr / PcrExtPerBase
}
