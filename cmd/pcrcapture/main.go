package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/codegangsta/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "pcrcapture"
	app.Usage = "print PCR and arrival time of a UDP transport stream, from a pcap file or the network"
	app.ArgsUsage = "<pcap-file>"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "pid",
			Value: -1,
			Usage: "only report PCRs carried on this PID",
		},
		cli.IntFlag{
			Name:  "port",
			Usage: "only read pcap datagrams sent to this UDP port",
		},
		cli.StringFlag{
			Name:  "listen",
			Usage: "receive live from addr:port instead of reading a pcap file",
		},
		cli.StringFlag{
			Name:  "iface",
			Usage: "interface used to join a multicast group",
		},
		cli.IntFlag{
			Name:  "count",
			Usage: "stop after this many datagrams when listening",
		},
	}
	app.Action = func(c *cli.Context) error {
		opts := options{pid: c.Int("pid"), port: c.Int("port")}

		var st stats
		if addr := c.String("listen"); addr != "" {
			conn, err := listen(c.String("iface"), addr)
			if err != nil {
				log.Fatal(err)
			}
			defer conn.Close()
			log.Printf("Receiving %s@%s", addr, c.String("iface"))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			st, err = receive(ctx, conn, opts, c.Int("count"), time.Now, os.Stdout)
			if err != nil {
				log.Fatal(err)
			}
		} else {
			input := c.Args().Get(0)
			if input == "" {
				cli.ShowAppHelp(c)
				return cli.NewExitError("", 2)
			}

			src, closer, err := openCapture(input)
			if err != nil {
				log.Fatal(err)
			}
			defer closer.Close()

			st, err = capture(src, opts, os.Stdout)
			if err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("%d datagrams, %d PCRs, %d sync byte errors", st.datagrams, st.pcrs, st.syncErrs)
		return nil
	}
	app.Run(os.Args)
}
