package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"fdt"
)

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
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
		return enc.Encode(dumpNode{}.from(p.Root()))
	}

	printNode(p.Root(), 0)
	return nil
}

func printNode(n *fdt.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if name == "" && depth == 0 {
		name = "/"
	}
	fmt.Printf("%s%s {\n", indent, name)
	for _, prop := range n.Properties {
		fmt.Printf("%s  %s = %s;\n", indent, prop.Name, formatValue(prop.Value))
	}
	for _, c := range n.Children {
		printNode(c, depth+1)
	}
	fmt.Printf("%s}\n", indent)
}

func formatValue(v fdt.PropertyValue) string {
	switch v.Kind {
	case fdt.KindEmpty:
		return "<empty>"
	case fdt.KindU32:
		u, _ := v.ToU32()
		return fmt.Sprintf("<%#x>", u)
	case fdt.KindU64:
		u, _ := v.ToU64()
		return fmt.Sprintf("<%#x>", u)
	case fdt.KindString:
		s, _ := v.ToString()
		return fmt.Sprintf("%q", s)
	case fdt.KindStringList:
		ss, _ := v.Strings()
		return fmt.Sprintf("%q", ss)
	case fdt.KindU32Array:
		words, _ := v.U32Array()
		return fmt.Sprintf("%#x", words)
	case fdt.KindU64Array:
		words, _ := v.U64Array()
		return fmt.Sprintf("%#x", words)
	default:
		return fmt.Sprintf("[% x]", v.Bytes())
	}
}

// dumpNode is a JSON-friendly rendering of fdt.Node/fdt.PropertyValue for
// the --json flag: one populated field per property, mirroring the
// encoder-side Property/Node shape from the FDT-building code this
// package's tests are grounded on, even though the core decoder keeps
// properties as classified raw-byte variants rather than pre-typed slices.
type dumpNode struct {
	Name       string                  `json:"name"`
	Properties map[string]dumpProperty `json:"properties,omitempty"`
	Children   []dumpNode              `json:"children,omitempty"`
}

type dumpProperty struct {
	Strings []string `json:"strings,omitempty"`
	U32     []uint32 `json:"u32,omitempty"`
	U64     []uint64 `json:"u64,omitempty"`
	Bytes   []byte   `json:"bytes,omitempty"`
	Flag    bool     `json:"flag,omitempty"`
}

func (dumpNode) from(n *fdt.Node) dumpNode {
	out := dumpNode{Name: n.Name}
	if len(n.Properties) > 0 {
		out.Properties = make(map[string]dumpProperty, len(n.Properties))
		for _, prop := range n.Properties {
			if _, exists := out.Properties[prop.Name]; exists {
				continue // first-wins, matching FindProperty lookup semantics
			}
			out.Properties[prop.Name] = dumpPropertyFrom(prop.Value)
		}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, dumpNode{}.from(c))
	}
	return out
}

func dumpPropertyFrom(v fdt.PropertyValue) dumpProperty {
	switch v.Kind {
	case fdt.KindEmpty:
		return dumpProperty{Flag: true}
	case fdt.KindU32:
		u, _ := v.ToU32()
		return dumpProperty{U32: []uint32{u}}
	case fdt.KindU64:
		u, _ := v.ToU64()
		return dumpProperty{U64: []uint64{u}}
	case fdt.KindString:
		s, _ := v.ToString()
		return dumpProperty{Strings: []string{s}}
	case fdt.KindStringList:
		ss, _ := v.Strings()
		return dumpProperty{Strings: ss}
	case fdt.KindU32Array:
		words, _ := v.U32Array()
		return dumpProperty{U32: words}
	case fdt.KindU64Array:
		words, _ := v.U64Array()
		return dumpProperty{U64: words}
	default:
		return dumpProperty{Bytes: v.Bytes()}
	}
}
