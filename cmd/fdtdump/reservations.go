package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"fdt"
)

func cmdReservations(args []string) error {
	fs := flag.NewFlagSet("reservations", flag.ExitOnError)
	in := fs.String("in", "", "path to a DTB file")
	jsonOut := fs.Bool("json", false, "emit JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	buf, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read %s: %w", *in, err)
	}
	p, err := fdt.Parse(buf)
	if err != nil {
		return fmt.Errorf("parse %s: %w", *in, err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Reservations())
	}

	for _, r := range p.Reservations() {
		fmt.Printf("addr=%#018x  size=%#x\n", r.Address, r.Size)
	}
	return nil
}
