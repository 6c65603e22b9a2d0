package main

import (
	"fmt"
	"io"
	"mdvrp-service/internal/adapters/export"
	"mdvrp-service/internal/config"
	"os"

	"github.com/urfave/cli"
)

func main() {
	config.LoadDotEnv()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "mdvrp"
	app.Usage = "inspect and convert MDVRP instance files"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose", Usage: "log loader activity to stderr"},
	}

	app.Commands = []cli.Command{
		{
			Name:      "inspect",
			Usage:     "print the summary of an instance",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format, f", Value: "yaml", Usage: "output format (json, yaml)"},
			},
			Action: func(c *cli.Context) error {
				format, err := export.ParseFormat(c.String("format"))
				if err != nil {
					return err
				}
				inst, err := loadArg(c)
				if err != nil {
					return err
				}
				return export.EncodeSummary(c.App.Writer, inst.Summary(), format)
			},
		},
		{
			Name:      "convert",
			Usage:     "re-encode an instance as json, yaml or text",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "format, f", Value: "json", Usage: "output format (json, yaml, text)"},
			},
			Action: func(c *cli.Context) error {
				format, err := export.ParseFormat(c.String("format"))
				if err != nil {
					return err
				}
				inst, err := loadArg(c)
				if err != nil {
					return err
				}
				return export.Encode(c.App.Writer, inst, format)
			},
		},
	}

	return app
}
