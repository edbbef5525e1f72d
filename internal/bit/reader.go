package bit

const BYTE = 8

// Reader reads big-endian bit fields from a byte slice.
type Reader struct {
	Data []byte
	Base int
	Off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{Data: data}
}

func (r *Reader) SkipByte(n int) {
	r.Base += n
}

func (r *Reader) SkipBit(n int) {
	n += r.Off
	r.Base += n / BYTE
	r.Off = n % BYTE
}

// Remaining reports the number of whole bytes left after the current byte
// position.
func (r *Reader) Remaining() int {
	return len(r.Data) - r.Base
}

func (r *Reader) ReadBit(n int) int {
	return int(r.ReadBit64(n))
}

func (r *Reader) ReadBit64(n int) (v int64) {
	var mask byte
	var sw uint
	for n > 0 {
		if r.Off+n >= BYTE {
			// Read all remaining bits in the current byte
			sw = uint(BYTE - r.Off)
			v <<= sw
			mask = byte(1<<sw - 1)
			v += int64(mask & r.Data[r.Base])

			n -= BYTE - r.Off
			r.Off = 0
			r.Base++
		} else {
			// Read exactly n bits
			v <<= uint(n)
			sw = uint(BYTE - r.Off)
			mask = byte(1<<sw - 1)
			sw = uint(BYTE - r.Off - n)
			v += int64((mask & r.Data[r.Base]) >> sw)

			r.Off += n
			n = 0
		}
	}
	return v
}
