package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"fdt"
)

func cmdMMIO(args []string) error {
	fs := flag.NewFlagSet("mmio", flag.ExitOnError)
	in := fs.String("in", "", "path to a DTB file")
	translate := fs.Bool("translate", false, "translate addresses through the ranges chain")
	jsonOut := fs.Bool("json", false, "emit JSON instead of text")
	maxDepth := fs.Int("max-depth", fdt.DefaultMaxTranslationDepth, "bound on translation recursion")
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

	var regions []fdt.MmioRegion
	if *translate {
		for node := range p.Root().IterNodes() {
			rs, err := p.MmioRegions(node, *maxDepth)
			if err != nil {
				return fmt.Errorf("discover mmio regions: %w", err)
			}
			regions = append(regions, rs...)
		}
	} else {
		regions, err = p.DiscoverMMIORegions(false)
		if err != nil {
			return fmt.Errorf("discover mmio regions: %w", err)
		}
	}

	if *jsonOut {
		type region struct {
			Node    string `json:"node"`
			Address uint64 `json:"address"`
			Size    uint64 `json:"size"`
		}
		out := make([]region, len(regions))
		for i, r := range regions {
			out[i] = region{Node: r.Node.Name, Address: r.Address, Size: r.Size}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range regions {
		fmt.Printf("%-40s  addr=%#018x  size=%#x\n", r.Node.Name, r.Address, r.Size)
	}
	return nil
}
