package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/codegangsta/cli"
	"github.com/leonlinc/pcrdrift/internal/drift"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "pcrdrift"
	app.Usage = "compare PCR time against capture time"
	app.ArgsUsage = "<pcr-timestamp-file>"
	app.HideHelp = true
	app.HideVersion = true
	app.Action = func(c *cli.Context) error {
		if c.NArg() != 1 {
			cli.HelpPrinter(cli.ErrWriter, cli.AppHelpTemplate, c.App)
			return cli.NewExitError(fmt.Sprintf("%s: expected exactly one input file", app.Name), 2)
		}
		if err := run(c.Args().Get(0), c.App.Writer); err != nil {
			return cli.NewExitError(fmt.Sprintf("%s: %v", app.Name, err), 1)
		}
		return nil
	}
	return app
}

func run(path string, w io.Writer) error {
	return drift.ProcessFile(path, w)
}

// pathArgs ends flag parsing before the first argument, so a path starting
// with "-" is still read as a path.
func pathArgs(args []string) []string {
	return append([]string{args[0], "--"}, args[1:]...)
}

func main() {
	if err := newApp().Run(pathArgs(os.Args)); err != nil {
		log.Fatal(err)
	}
}
