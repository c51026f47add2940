package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/typeinfo"
)

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [root-address] <name>",
		Short: "Show a class or enum in detail",
		Long: `Look up a class or enum by exact name in the reflection table at the
root address and print all of its decoded data.

  lookup 0x1463B7E90 Entity
  lookup State            (root taken from the configuration)`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, a, args[:len(args)-1], args[len(args)-1])
		},
	}
}

func runLookup(cmd *cobra.Command, a *app, rootArgs []string, name string) error {
	addr, err := a.rootArg(rootArgs)
	if err != nil {
		return err
	}

	target, err := a.openTarget()
	if err != nil {
		return err
	}
	defer ierrors.DeferClose(a.log, target, "failed to close target")

	snap, err := a.decoder(target).Snapshot(addr)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	w, done, err := a.textOutput(cmd)
	if err != nil {
		return err
	}
	defer done()

	if c, ok := snap.Lookup(name); ok {
		printClassDetail(w, c)
		return nil
	}
	if e, ok := snap.LookupEnum(name); ok {
		printEnumDetail(w, e)
		return nil
	}

	fmt.Fprintf(w, "No class or enum named '%s'\n", name)
	return nil
}

func printClassDetail(w io.Writer, c *typeinfo.Class) {
	fmt.Fprintf(w, "Class:\n")
	fmt.Fprintf(w, "  Name: %s\n", c.Name)
	if c.SuperType != nil {
		fmt.Fprintf(w, "  Super: %s\n", *c.SuperType)
	}
	fmt.Fprintf(w, "  Hash: 0x%08X\n", c.Hash)
	fmt.Fprintf(w, "  Size: %d\n", c.Size)
	fmt.Fprintf(w, "  Checksum: 0x%016X\n", c.Checksum)
	if c.MetaData != nil {
		fmt.Fprintf(w, "  MetaData: %s\n", *c.MetaData)
	}

	if len(c.TemplateParms) > 0 {
		fmt.Fprintf(w, "  TemplateParms:\n")
		for i := range c.TemplateParms {
			printField(w, &c.TemplateParms[i])
		}
	}

	fmt.Fprintf(w, "  Variables: %d\n", len(c.Variables))
	for i := range c.Variables {
		printField(w, &c.Variables[i])
	}
}

func printField(w io.Writer, f *typeinfo.Field) {
	fmt.Fprintf(w, "    +0x%04X %-6d %s %s", f.Offset, f.Size, f.Type, f.Name)
	if f.Hash != nil {
		fmt.Fprintf(w, " hash=0x%016X", *f.Hash)
	}
	if f.Flags != 0 {
		fmt.Fprintf(w, " flags=0x%X", f.Flags)
	}
	if f.Comment != nil {
		fmt.Fprintf(w, " // %s", *f.Comment)
	}
	fmt.Fprintln(w)
}

func printEnumDetail(w io.Writer, e *typeinfo.Enum) {
	fmt.Fprintf(w, "Enum:\n")
	fmt.Fprintf(w, "  Name: %s\n", e.Name)
	fmt.Fprintf(w, "  Hash: 0x%08X\n", e.Hash)
	fmt.Fprintf(w, "  Width: %s\n", e.Width)
	fmt.Fprintf(w, "  Values: %d\n", len(e.Values))
	for _, v := range e.Values {
		fmt.Fprintf(w, "    %s = %d (hash=0x%016X)\n", v.Name, v.Value, v.Hash)
	}
}
