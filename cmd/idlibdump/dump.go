package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/idlib-go/internal/config"
	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/internal/output"
	"github.com/skdltmxn/idlib-go/procmem"
	"github.com/skdltmxn/idlib-go/typeinfo"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		typedefs     bool
		keepGoing    bool
		lossyText    bool
		stringWindow int
	)

	cmd := &cobra.Command{
		Use:   "dump [root-address...]",
		Short: "Decode reflection tables and write them as JSON",
		Long: `Decode the reflection table at each root address and write one JSON
document holding an array with one element per root.

Roots come from the arguments, or from the "roots" list of the
configuration file. The document is written to -o, or to the configured
output (idlib.json by default). Use "-o -" to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("typedefs") {
				a.cfg.Typedefs = typedefs
			}
			if flags.Changed("keep-going") {
				a.cfg.KeepGoing = keepGoing
			}
			if flags.Changed("lossy-text") {
				a.cfg.LossyText = lossyText
			}
			if flags.Changed("string-window") {
				if stringWindow <= 0 {
					return fmt.Errorf("string window must be positive, got %d", stringWindow)
				}
				a.cfg.StringWindow = stringWindow
			}
			if len(args) > 0 {
				a.cfg.Roots = args
			}
			return runDump(cmd, a)
		},
	}

	cmd.Flags().BoolVar(&typedefs, "typedefs", false, "also decode the typedef table")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "skip entries that fail to decode instead of aborting")
	cmd.Flags().BoolVar(&lossyText, "lossy-text", false, "replace invalid UTF-8 in names instead of failing")
	cmd.Flags().IntVar(&stringWindow, "string-window", typeinfo.DefaultStringWindow, "bytes probed per foreign string")

	return cmd
}

func runDump(cmd *cobra.Command, a *app) error {
	roots, err := a.cfg.RootAddresses()
	if err != nil {
		return err
	}

	target, err := a.openTarget()
	if err != nil {
		return err
	}
	defer ierrors.DeferClose(a.log, target, "failed to close target")

	snaps, err := a.decoder(target).Snapshots(roots)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	path := a.cfg.Output
	if path == "" {
		path = config.DefaultOutput
	}

	var digest uint64
	if path == "-" {
		digest, err = output.Encode(cmd.OutOrStdout(), snaps)
	} else {
		digest, err = output.WriteFile(path, snaps)
	}
	if err != nil {
		return err
	}

	classes, enums := 0, 0
	for _, s := range snaps {
		classes += len(s.Classes)
		enums += len(s.Enums)
	}

	a.log.Info().
		Strs("roots", addressStrings(roots)).
		Int("classes", classes).
		Int("enums", enums).
		Str("output", path).
		Str("xxh3", fmt.Sprintf("%016x", digest)).
		Msg("wrote reflection document")
	return nil
}

func addressStrings(addrs []procmem.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}
