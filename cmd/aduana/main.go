package main

import (
	"os"

	"github.com/fdeantoni/aduana/internal/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
