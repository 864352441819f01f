// Package main provides the strided CLI.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/strided/internal/commands"
)

// AppVersion is set at build time with -ldflags "-X main.AppVersion=...".
var AppVersion = "v0.1.0-dev"

func main() {
	args, err := commands.ParseArguments(os.Args, AppVersion)
	if err != nil {
		// usage has already been printed
		logrus.Error(err.Error())
		os.Exit(1)
	}

	if err := commands.Run(args, AppVersion, os.Stdout); err != nil {
		logrus.Error(err.Error())
		os.Exit(3)
	}
}
