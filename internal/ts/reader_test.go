package ts

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcrPacket builds a packet whose adaptation field carries a PCR.
func pcrPacket(pid int, base, ext int64) []byte {
	b := bytes.Repeat([]byte{0xFF}, PacketSize)
	b[0] = SyncByte
	b[1] = byte(pid>>8) & 0x1F
	b[2] = byte(pid)
	b[3] = 0x20
	b[4] = PacketSize - 5
	b[5] = 0x10
	v := base<<15 | 0x3F<<9 | ext
	for i := 0; i < 6; i++ {
		b[6+i] = byte(v >> (40 - 8*i))
	}
	return b
}

func payloadPacket(pid int) []byte {
	b := make([]byte, PacketSize)
	b[0] = SyncByte
	b[1] = byte(pid>>8) & 0x1F
	b[2] = byte(pid)
	b[3] = 0x10
	return b
}

func TestComputePcr(t *testing.T) {
	assert.Equal(t, int64(27000000), ComputePcr(90000, 0))
	assert.Equal(t, int64(301), ComputePcr(1, 1))

	rec := PcrRecord{Pcr: ComputePcr(90000, 299)}
	assert.Equal(t, int64(90000), rec.Base())
}

func TestReader_Pcr(t *testing.T) {
	var stream []byte
	stream = append(stream, payloadPacket(0x100)...)
	stream = append(stream, pcrPacket(0x1FF, 0x1ABCDEF01, 123)...)
	stream = append(stream, payloadPacket(0x1FF)...)

	r := NewReader(bytes.NewReader(stream))
	buf := make([]byte, PacketSize)

	_, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0x100, r.PID)
	assert.Equal(t, int64(0), r.Pos())
	_, ok := r.Pcr()
	assert.False(t, ok)

	_, err = r.Read(buf)
	require.NoError(t, err)
	rec, ok := r.Pcr()
	require.True(t, ok)
	assert.Equal(t, PcrRecord{Pid: 0x1FF, Pos: 1, Pcr: ComputePcr(0x1ABCDEF01, 123)}, rec)
	assert.Equal(t, int64(0x1ABCDEF01), rec.Base())

	_, err = r.Read(buf)
	require.NoError(t, err)
	_, ok = r.Pcr()
	assert.False(t, ok)

	_, err = r.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestReader_SyncByte(t *testing.T) {
	bad := payloadPacket(0x100)
	bad[0] = 0x00
	stream := append(bad, pcrPacket(0x100, 90000, 0)...)

	r := NewReader(bytes.NewReader(stream))
	buf := make([]byte, PacketSize)

	_, err := r.Read(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyncByte))

	_, err = r.Read(buf)
	require.NoError(t, err)
	rec, ok := r.Pcr()
	require.True(t, ok)
	assert.Equal(t, int64(90000), rec.Base())
	assert.Equal(t, int64(1), rec.Pos)
}

func TestReader_ShortAdaptationField(t *testing.T) {
	b := pcrPacket(0x100, 90000, 0)
	b[4] = 1

	r := NewReader(bytes.NewReader(b))
	_, err := r.Read(make([]byte, PacketSize))
	require.NoError(t, err)
	_, ok := r.Pcr()
	assert.False(t, ok)
}

func TestReader_Truncated(t *testing.T) {
	r := NewReader(bytes.NewReader(payloadPacket(0x100)[:100]))
	_, err := r.Read(make([]byte, PacketSize))
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = r.Read(make([]byte, 10))
	assert.Equal(t, io.ErrShortBuffer, err)
}
