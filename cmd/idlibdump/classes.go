package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/typeinfo"
)

func newClassesCmd(a *app) *cobra.Command {
	var (
		filter string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "classes [root-address]",
		Short: "List reflected classes",
		Long: `List the classes of the reflection table at the root address.

Use --filter to show only classes whose name contains the given text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(cmd, a, args, filter, limit)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "show classes whose name contains this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "limit number of classes shown (0 = unlimited)")

	return cmd
}

func runClasses(cmd *cobra.Command, a *app, args []string, filter string, limit int) error {
	addr, err := a.rootArg(args)
	if err != nil {
		return err
	}

	target, err := a.openTarget()
	if err != nil {
		return err
	}
	defer ierrors.DeferClose(a.log, target, "failed to close target")

	d := a.decoder(target)
	root, err := d.Root(addr)
	if err != nil {
		return fmt.Errorf("failed to read root: %w", err)
	}
	classes, err := d.Classes(root)
	if err != nil {
		return fmt.Errorf("failed to decode classes: %w", err)
	}

	w, done, err := a.textOutput(cmd)
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintf(w, "%-10s %-8s %-6s %-40s %s\n", "HASH", "SIZE", "VARS", "NAME", "SUPER")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

	count := 0
	for i := range classes {
		if !matches(classes[i].Name, filter) {
			continue
		}

		printClass(w, &classes[i])
		count++
		if limit > 0 && count >= limit {
			break
		}
	}

	fmt.Fprintf(w, "\nTotal: %d classes\n", count)
	return nil
}

func printClass(w io.Writer, c *typeinfo.Class) {
	super := "-"
	if c.SuperType != nil {
		super = *c.SuperType
	}
	fmt.Fprintf(w, "0x%08X %-8d %-6d %-40s %s\n", c.Hash, c.Size, len(c.Variables), c.Name, super)
}

func matches(name, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
