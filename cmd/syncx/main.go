package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aradilov/syncx/internal/cli"
)

const (
	cmdName = "syncx"

	shortDesc = "Exercise the syncx synchronization primitives."
	longDesc  = `Runs concurrent scenarios against the syncx primitives (spin lock,
blocking channel, oneshot channel and Arc) and checks the properties each one
promises: mutual exclusion, FIFO delivery without loss or duplication,
single delivery with disconnect detection, and release-once reference counting.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
