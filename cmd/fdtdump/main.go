// Command fdtdump is a thin façade over package fdt for manual inspection
// of DTB files from the command line. It adds no parsing or translation
// logic of its own; every subcommand is a few lines of flag handling
// around the library's public API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = cmdDump(os.Args[2:])
	case "mmio":
		err = cmdMMIO(os.Args[2:])
	case "reservations":
		err = cmdReservations(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `fdtdump — Flattened Device Tree inspector

Usage:
  fdtdump dump         --in <path.dtb> [--json]              Print the node/property tree
  fdtdump mmio         --in <path.dtb> [--translate] [--json] List reg regions as MMIO windows
  fdtdump reservations --in <path.dtb> [--json]              List the memory-reservation block

Flags:
  --in <path>     Path to a DTB file
  --json          Emit JSON instead of text
  --translate     (mmio only) translate addresses through the ranges chain
  --max-depth <n> (mmio only) bound on translation recursion (default 32)
`)
}
