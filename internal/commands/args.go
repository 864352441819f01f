// Package commands parses command lines for the strided tool and runs the
// selected action.
package commands

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// MissingArgument is returned when a command lacks a positional argument.
var MissingArgument = errors.New("missing argument")

// Arguments is the parsed command line. Exactly one command field is set
// after a successful parse of a command.
type Arguments struct {
	ConfigPath string
	LogLevel   string

	Version  *VersionArguments
	Inspect  *InspectArguments
	Verify   *VerifyArguments
	Convert  *ConvertArguments
	Generate *GenerateArguments
}

// VersionArguments selects the version command.
type VersionArguments struct{}

// InspectArguments lists the entries of an archive.
type InspectArguments struct {
	Path    string
	NoTable bool
}

// VerifyArguments re-validates an archive.
type VerifyArguments struct {
	Path string
}

// ConvertArguments re-encodes an archive with another codec.
type ConvertArguments struct {
	In    string
	Out   string
	Codec string // empty means the configured default
}

// GenerateArguments writes a seeded random archive.
type GenerateArguments struct {
	Out   string
	DType string
	Shape []int
	Dist  string
	Seed  uint64
}

// ParseArguments parses argv. Usage and help output is printed by the
// parser.
func ParseArguments(argv []string, appVersion string) (*Arguments, error) {
	var args Arguments
	app := cli.NewApp()
	app.Name = "strided"
	app.Usage = "Inspect and convert strided view archives"
	app.Version = appVersion
	app.UseShortOptionHandling = true

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config,c", Usage: "YAML configuration file"},
		cli.StringFlag{Name: "log-level", Usage: "Override log.level from the configuration"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "version",
			Usage: "Show version",
			Action: func(c *cli.Context) error {
				args.Version = &VersionArguments{}
				return nil
			},
		},
		{
			Name:      "inspect",
			Usage:     "List the entries of an archive",
			ArgsUsage: "<archive>",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "no-table", Usage: "Render plain text instead of a table"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Inspect = &InspectArguments{
					Path:    c.Args().Get(0),
					NoTable: c.Bool("no-table"),
				}
				return nil
			},
		},
		{
			Name:      "verify",
			Usage:     "Check the checksum and re-validate every entry",
			ArgsUsage: "<archive>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				args.Verify = &VerifyArguments{Path: c.Args().Get(0)}
				return nil
			},
		},
		{
			Name:      "convert",
			Usage:     "Re-encode an archive, preserving buffer sharing",
			ArgsUsage: "<in> <out>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "codec", Usage: "msgpack or json"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					return MissingArgument
				}
				args.Convert = &ConvertArguments{
					In:    c.Args().Get(0),
					Out:   c.Args().Get(1),
					Codec: c.String("codec"),
				}
				return nil
			},
		},
		{
			Name:      "generate",
			Usage:     "Write a seeded random view and views aliasing it",
			ArgsUsage: "<out>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "dtype", Value: "float64", Usage: "Element type"},
				cli.StringFlag{Name: "shape", Value: "10,13", Usage: "Comma-separated extents"},
				cli.StringFlag{Name: "dist", Value: "normal", Usage: "uniform, normal, exponential, cauchy, lognormal, geometric or bernoulli"},
				cli.Uint64Flag{Name: "seed", Value: 42, Usage: "Generator seed"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return MissingArgument
				}
				shape, err := parseShape(c.String("shape"))
				if err != nil {
					return err
				}
				args.Generate = &GenerateArguments{
					Out:   c.Args().Get(0),
					DType: c.String("dtype"),
					Shape: shape,
					Dist:  c.String("dist"),
					Seed:  c.Uint64("seed"),
				}
				return nil
			},
		},
	}
	app.Before = func(c *cli.Context) error {
		args.ConfigPath = c.GlobalString("config")
		args.LogLevel = c.GlobalString("log-level")
		return nil
	}
	err := app.Run(argv)
	return &args, err
}

// parseShape reads extents such as "10,13".
func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "shape %q", s)
		}
		shape[i] = n
	}
	return shape, nil
}
