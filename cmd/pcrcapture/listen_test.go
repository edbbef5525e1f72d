package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceive(t *testing.T) {
	conn, err := listen("", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	sender, err := net.Dial("udp", conn.LocalAddr().String())
	require.NoError(t, err)
	defer sender.Close()

	datagrams := [][]byte{
		concat(pcrPacket(0x100, 90000), nullPacket()),
		{0x00, 0x01},
		concat(rtpHeader(0, 0), pcrPacket(0x100, 180000)),
	}
	for _, d := range datagrams {
		_, err := sender.Write(d)
		require.NoError(t, err)
	}

	clock := time.Unix(100, 0)
	now := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	st, err := receive(ctx, conn, options{pid: -1}, 2, now, &out)
	require.NoError(t, err)
	assert.Equal(t, "90000\t101000000000\n180000\t103000000000\n", out.String())
	assert.Equal(t, 2, st.datagrams)
	assert.Equal(t, 2, st.pcrs)
}

func TestReceive_Cancel(t *testing.T) {
	conn, err := listen("", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	st, err := receive(ctx, conn, options{pid: -1}, 0, time.Now, &out)
	require.NoError(t, err)
	assert.Zero(t, st.datagrams)
	assert.Empty(t, out.String())
}

func TestListen_BadAddr(t *testing.T) {
	_, err := listen("", "not-an-address")
	assert.Error(t, err)
}
