package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/typeinfo"
)

func newEnumsCmd(a *app) *cobra.Command {
	var (
		filter string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "enums [root-address]",
		Short: "List reflected enums",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnums(cmd, a, args, filter, limit)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "show enums whose name contains this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "limit number of enums shown (0 = unlimited)")

	return cmd
}

func runEnums(cmd *cobra.Command, a *app, args []string, filter string, limit int) error {
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
	enums, err := d.Enums(root)
	if err != nil {
		return fmt.Errorf("failed to decode enums: %w", err)
	}

	w, done, err := a.textOutput(cmd)
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintf(w, "%-10s %-8s %-6s %s\n", "HASH", "WIDTH", "VALUES", "NAME")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

	count := 0
	for i := range enums {
		if !matches(enums[i].Name, filter) {
			continue
		}

		printEnum(w, &enums[i])
		count++
		if limit > 0 && count >= limit {
			break
		}
	}

	fmt.Fprintf(w, "\nTotal: %d enums\n", count)
	return nil
}

func printEnum(w io.Writer, e *typeinfo.Enum) {
	fmt.Fprintf(w, "0x%08X %-8s %-6d %s\n", e.Hash, e.Width, len(e.Values), e.Name)
}
