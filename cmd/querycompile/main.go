// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Command querycompile compiles search parameters offline and prints the
// OpenSearch request bodies the service would send.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "querycompile",
		Usage: "Compile faceted search parameters into OpenSearch requests",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compile key=value parameters for a resource type",
				ArgsUsage: "[key=value ...]",
				Action:    compileCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "resource",
						Aliases:  []string{"r"},
						Usage:    "Resource type to search",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "caller",
						Aliases: []string{"c"},
						Usage:   "YAML file describing the caller; anonymous when omitted",
					},
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print single-line JSON",
					},
				},
			},
			{
				Name:   "resources",
				Usage:  "List the resource types",
				Action: resourcesCommand,
			},
			{
				Name:   "keys",
				Usage:  "List the parameters and sorts of a resource type",
				Action: keysCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "resource",
						Aliases:  []string{"r"},
						Usage:    "Resource type to describe",
						Required: true,
					},
				},
			},
		},
	}
}
