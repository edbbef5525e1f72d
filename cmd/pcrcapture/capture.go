package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/leonlinc/pcrdrift/internal/ts"
)

const (
	rtpHeaderSize = 12
	rtpVersion    = 2
	pcapngMagic   = 0x0A0D0D0A
)

type options struct {
	pid  int // -1 for any
	port int // 0 for any
}

type stats struct {
	datagrams int
	pcrs      int
	syncErrs  int
}

type packetSource interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// openCapture opens a pcap or pcapng file.
func openCapture(fname string) (packetSource, io.Closer, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", fname, err)
	}

	var src packetSource
	if binary.LittleEndian.Uint32(magic) == pcapngMagic {
		src, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		src, err = pcapgo.NewReader(br)
	}
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", fname, err)
	}
	return src, f, nil
}

// capture writes "pcr<TAB>capture_ns" for every PCR found in the UDP
// payloads of src. The PCR is written on the 90 kHz scale.
func capture(src packetSource, opts options, w io.Writer) (stats, error) {
	var st stats
	bw := bufio.NewWriter(w)
	source := gopacket.NewPacketSource(src, src.LinkType())
	for packet := range source.Packets() {
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp := udpLayer.(*layers.UDP)
		if opts.port != 0 && int(udp.DstPort) != opts.port {
			continue
		}
		payload := extract(udp.Payload)
		if payload == nil {
			continue
		}
		st.datagrams++

		timestamp := packet.Metadata().CaptureInfo.Timestamp.UnixNano()
		n, errs, err := timing(payload, timestamp, opts.pid, bw)
		st.pcrs += n
		st.syncErrs += errs
		if err != nil {
			return st, err
		}
	}
	return st, bw.Flush()
}

// extract returns the TS packets carried in a UDP payload, skipping an RTP
// header when the payload does not start with a sync byte. A trailing partial
// packet is left for timing to discard.
func extract(payload []byte) []byte {
	if len(payload) > 0 && payload[0] == ts.SyncByte {
		return payload
	}
	if len(payload) < rtpHeaderSize || payload[0]>>6 != rtpVersion {
		return nil
	}
	offset := rtpHeaderSize
	// CSRC list
	offset += 4 * int(payload[0]&0x0F)
	extension := (payload[0] >> 4) & 1
	if extension == 1 {
		if len(payload) < offset+4 {
			return nil
		}
		extensionLength := binary.BigEndian.Uint16(payload[offset+2:])
		// Extension header
		offset += 4
		// Extension entries
		offset += 4 * int(extensionLength)
	}
	if len(payload) < offset+ts.PacketSize {
		return nil
	}
	return payload[offset:]
}

func timing(payload []byte, timestamp int64, pid int, w io.Writer) (pcrs, syncErrs int, err error) {
	r := ts.NewReader(bytes.NewReader(payload))
	buf := make([]byte, ts.PacketSize)
	for {
		_, rerr := r.Read(buf)
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			return
		}
		if errors.Is(rerr, ts.ErrSyncByte) {
			syncErrs++
			continue
		}
		if rerr != nil {
			err = rerr
			return
		}
		rec, ok := r.Pcr()
		if !ok || (pid >= 0 && rec.Pid != pid) {
			continue
		}
		if _, err = fmt.Fprintf(w, "%d\t%d\n", rec.Base(), timestamp); err != nil {
			return
		}
		pcrs++
	}
}
