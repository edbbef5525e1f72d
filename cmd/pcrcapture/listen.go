package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// MaxSize is the largest datagram expected on an Ethernet link.
const MaxSize = 1500

// listen joins the multicast group addr on the named interface, or binds a
// unicast socket when addr is not a multicast address.
func listen(ifiName, addr string) (net.PacketConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	if !udpAddr.IP.IsMulticast() {
		return net.ListenUDP("udp", udpAddr)
	}

	var ifi *net.Interface
	if ifiName != "" {
		ifi, err = net.InterfaceByName(ifiName)
		if err != nil {
			return nil, err
		}
	}
	return net.ListenMulticastUDP("udp", ifi, udpAddr)
}

// receive stamps each datagram read from conn with now() and writes its
// PCRs like capture does. It stops when ctx is done or after count datagrams
// carrying TS packets, if count is positive.
func receive(ctx context.Context, conn net.PacketConn, opts options, count int, now func() time.Time, w io.Writer) (stats, error) {
	var st stats
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	b := make([]byte, MaxSize)
	for count <= 0 || st.datagrams < count {
		n, _, err := conn.ReadFrom(b)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return st, nil
			}
			return st, err
		}
		timestamp := now().UnixNano()

		payload := extract(b[:n])
		if payload == nil {
			continue
		}
		st.datagrams++

		pcrs, syncErrs, err := timing(payload, timestamp, opts.pid, bw)
		st.pcrs += pcrs
		st.syncErrs += syncErrs
		if err != nil {
			return st, err
		}
		if err := bw.Flush(); err != nil {
			return st, err
		}
	}
	return st, nil
}
