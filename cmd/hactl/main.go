// hactl manages Home Assistant configuration files from version control.
package main

import (
	"os"

	"github.com/johnallen3d/home-assistant/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
