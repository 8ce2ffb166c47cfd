// shelf-admin - operator CLI for exploring shelf item storage.
package main

import (
	"os"

	"github.com/shelfware/shelf-admin/internal/cli"
	"github.com/shelfware/shelf-admin/internal/version"
)

// Version information - overridden by the Makefile via LDFLAGS for releases.
var (
	Version   = "v1.2.0"
	BuildTime = "unknown"
)

func main() {
	// The version package is the canonical source for all packages; the
	// CLI keeps its own copy for the root command's banner.
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
