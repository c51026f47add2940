package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skdltmxn/idlib-go/internal/config"
	ierrors "github.com/skdltmxn/idlib-go/internal/errors"
	"github.com/skdltmxn/idlib-go/internal/logging"
	"github.com/skdltmxn/idlib-go/internal/records"
	"github.com/skdltmxn/idlib-go/procmem"
	"github.com/skdltmxn/idlib-go/typeinfo"
)

// app carries the state shared by every command of one invocation.
type app struct {
	cfgFile    string
	pid        int
	dump       string
	base       string
	logLevel   string
	logPretty  bool
	outputFile string

	cfg    *config.Config
	logCfg logging.Config
	log    zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "idlibdump",
		Short: "Reflection table extractor for running processes",
		Long: `idlibdump reads the type reflection table embedded in a running
64-bit process (or a raw memory dump of one) and writes the classes,
enums and typedefs it describes as JSON.

The target is never written to and no code found in it is executed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	pf.IntVarP(&a.pid, "pid", "p", 0, "target process id")
	pf.StringVar(&a.dump, "dump", "", "read a raw memory dump instead of a live process")
	pf.StringVar(&a.base, "base", "0x0", "address the dump was taken from")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.BoolVar(&a.logPretty, "log-pretty", true, "human-readable log output")
	pf.StringVarP(&a.outputFile, "output", "o", "", "write output to file instead of the default")

	cmd.AddCommand(newDumpCmd(a))
	cmd.AddCommand(newInfoCmd(a))
	cmd.AddCommand(newClassesCmd(a))
	cmd.AddCommand(newEnumsCmd(a))
	cmd.AddCommand(newLookupCmd(a))

	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger. It refuses to run when the record layouts do not hold on this
// host.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := records.CheckLayouts(); err != nil {
		return fmt.Errorf("refusing to run: %w", err)
	}

	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("pid") {
		cfg.PID = a.pid
	}
	if flags.Changed("dump") {
		cfg.Dump = a.dump
	}
	if flags.Changed("base") {
		cfg.Base = a.base
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty = a.logPretty
	}
	if flags.Changed("output") {
		cfg.Output = a.outputFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logCfg = logging.DefaultConfig()
	a.logCfg.Level = cfg.Log.Level
	a.logCfg.Pretty = cfg.Log.Pretty
	a.logCfg.Output = cmd.ErrOrStderr()
	a.log = logging.New(a.logCfg)
	return nil
}

// openTarget opens the live process or dump image named by the
// configuration.
func (a *app) openTarget() (procmem.Target, error) {
	if a.cfg.PID != 0 {
		p, err := procmem.Open(a.cfg.PID)
		if err != nil {
			return nil, fmt.Errorf("failed to open process: %w", err)
		}

		ev := a.log.Debug().Int("pid", a.cfg.PID)
		if info, err := procmem.Describe(a.cfg.PID); err == nil {
			ev = ev.Str("name", info.Name)
		}
		ev.Msg("attached to process")
		return p, nil
	}

	base, err := a.cfg.BaseAddress()
	if err != nil {
		return nil, err
	}
	img, err := procmem.OpenDump(a.cfg.Dump, base)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	a.log.Debug().Str("dump", a.cfg.Dump).Str("base", base.String()).Msg("loaded dump image")
	return img, nil
}

func (a *app) decoder(mem procmem.Memory) *typeinfo.Decoder {
	text := typeinfo.TextStrict
	if a.cfg.LossyText {
		text = typeinfo.TextLossy
	}
	log := logging.NewWithComponent(a.logCfg, "typeinfo")
	return typeinfo.NewDecoder(mem, typeinfo.Options{
		StringWindow: a.cfg.StringWindow,
		Text:         text,
		Typedefs:     a.cfg.Typedefs,
		KeepGoing:    a.cfg.KeepGoing,
		Logger:       &log,
	})
}

// rootArg returns the root address given as an argument, falling back to
// the first configured root.
func (a *app) rootArg(args []string) (procmem.Address, error) {
	if len(args) > 0 {
		addr, err := procmem.ParseAddress(args[0])
		if err != nil {
			return 0, err
		}
		return addr, nil
	}

	roots, err := a.cfg.RootAddresses()
	if err != nil {
		return 0, err
	}
	return roots[0], nil
}

// textOutput returns where listing commands print: the -o file when given,
// the command's stdout when it is absent or "-". The returned func releases
// the file.
func (a *app) textOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	if a.outputFile == "" || a.outputFile == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(a.outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { ierrors.DeferClose(a.log, f, "failed to close output file") }, nil
}
