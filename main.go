package main

import (
	"os"

	"github.com/mrlokans/dbcentral/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	os.Exit(entrypoint.Run(Version+" ("+Commit+")", os.Args[1:], os.Stderr))
}
