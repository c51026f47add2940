package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/procmem"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [root-address]",
		Short: "Display target and root descriptor information",
		Long: `Display the target being read and, when a root address is given or
configured, the header of the reflection table found there.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, a, args)
		},
	}
}

func runInfo(cmd *cobra.Command, a *app, args []string) error {
	w, done, err := a.textOutput(cmd)
	if err != nil {
		return err
	}
	defer done()

	if a.cfg.PID != 0 {
		info, err := procmem.Describe(a.cfg.PID)
		if err != nil {
			return fmt.Errorf("failed to describe process: %w", err)
		}
		fmt.Fprintf(w, "PID: %d\n", info.PID)
		fmt.Fprintf(w, "Name: %s\n", info.Name)
		if info.Exe != "" {
			fmt.Fprintf(w, "Executable: %s\n", info.Exe)
		}
		fmt.Fprintf(w, "Running: %v\n", info.Running)
	} else {
		fmt.Fprintf(w, "Dump: %s\n", a.cfg.Dump)
		fmt.Fprintf(w, "Base: %s\n", a.cfg.Base)
	}

	if len(args) == 0 && len(a.cfg.Roots) == 0 {
		return nil
	}

	addr, err := a.rootArg(args)
	if err != nil {
		return err
	}

	target, err := a.openTarget()
	if err != nil {
		return err
	}
	defer ierrors.DeferClose(a.log, target, "failed to close target")

	root, err := a.decoder(target).Root(addr)
	if err != nil {
		return fmt.Errorf("failed to read root: %w", err)
	}

	printRootInfo(w, root.Address, root.ProjectName, []tableInfo{
		{"Classes", root.ClassTable, root.ClassCount},
		{"Enums", root.EnumTable, root.EnumCount},
		{"Typedefs", root.TypedefTable, root.TypedefCount},
	})
	return nil
}

type tableInfo struct {
	name  string
	addr  procmem.Address
	count int
}

func printRootInfo(w io.Writer, addr procmem.Address, project string, tables []tableInfo) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Root: %s\n", addr)
	fmt.Fprintf(w, "Project: %s\n", project)
	for _, t := range tables {
		fmt.Fprintf(w, "%s: %d at %s\n", t.name, t.count, t.addr)
	}
}
