package main

import (
	"simplecrm/internal/cli"
)

// Version is set via ldflags during build. e.g. -X main.Version=1.2.0
var Version = "dev"

func main() {
	cli.Init(Version)
	cli.Execute()
}
