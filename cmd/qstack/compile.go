package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qstack/internal/circuit"
	"qstack/internal/config"
	"qstack/internal/diag"
	"qstack/internal/encode"
	"qstack/internal/observ"
	"qstack/internal/program"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <program.toml>",
	Short: "Lower a logical program onto a stabilizer code",
	Long: `Compile a logical program and print the physical circuit: every
prepare first, then every gate, then every measurement.`,
	Args: cobra.ExactArgs(1),
	RunE: compileExecution,
}

func init() {
	addEncodeFlags(compileCmd)
	compileCmd.Flags().String("format", "circuit", "output format (circuit|summary)")
	compileCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")
}

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("")

type compileJob struct {
	cfg      config.Config
	prog     *program.Program
	compiled *encode.Compiled
	settings encodeSettings
	bag      *diag.Bag
	timer    *observ.Timer
}

// compileProgram loads, validates and lowers path, printing diagnostics.
func compileProgram(cmd *cobra.Command, path string) (*compileJob, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	job := &compileJob{bag: diag.NewBag(maxDiagnostics), timer: observ.NewTimer()}
	if job.cfg, err = loadConfig(cmd); err != nil {
		return nil, err
	}

	err = job.timer.Time("load", func() (string, error) {
		p, err := program.Load(path)
		if err != nil {
			return "", err
		}
		job.prog = p
		return fmt.Sprintf("%d ops", len(p.Ops)), nil
	})
	if err != nil {
		job.bag.Add(diag.NewError(diag.IOLoadFileError, diag.NoSite, err.Error()))
		printDiagnostics(cmd.ErrOrStderr(), job.bag, path, quiet)
		return nil, errReported
	}

	if job.settings, err = resolveEncode(cmd, job.cfg, job.prog.Code); err != nil {
		return nil, err
	}

	err = job.timer.Time("compile", func() (string, error) {
		c, err := encode.Compile(cmd.Context(), job.prog, job.settings.code, encode.Options{
			MaxWeight: job.settings.maxWeight,
			Cache:     job.settings.cache,
			Reporter:  &diag.BagReporter{Bag: job.bag},
		})
		if err != nil {
			return "", err
		}
		job.compiled = c
		return fmt.Sprintf("%s, %d qubits", c.Code.Name(), c.Qubits), nil
	})
	errs := printDiagnostics(cmd.ErrOrStderr(), job.bag, path, quiet)
	if err != nil {
		if errs > 0 {
			return nil, errReported
		}
		return nil, err
	}
	return job, nil
}

func compileExecution(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	job, err := compileProgram(cmd, args[0])
	if err != nil {
		return silence(cmd, err)
	}

	render := func(w io.Writer) error {
		switch strings.ToLower(format) {
		case "circuit":
			_, err := io.WriteString(w, circuit.Format(job.compiled.Gadget.Instructions()))
			return err
		case "summary":
			return writeSummary(w, job.compiled)
		}
		return fmt.Errorf("unknown format %q (expected circuit|summary)", format)
	}
	if outputPath == "" {
		err = render(cmd.OutOrStdout())
	} else {
		err = writeFile(outputPath, render)
	}
	if err != nil {
		return err
	}
	printTimings(cmd, cmd.ErrOrStderr(), job.timer)
	return nil
}

func writeSummary(w io.Writer, c *encode.Compiled) error {
	g := c.Gadget
	gates := 0
	twoQubit := 0
	for _, in := range g.Compute {
		gates++
		if in.Kind == circuit.KindGate2 {
			twoQubit++
		}
	}
	_, err := fmt.Fprintf(w,
		"program:      %s\ncode:         %s (n=%d)\nlogical:      %d\ndata qubits:  %d\nancillas:     %d\ngates:        %d (%d two-qubit)\nmeasurements: %d\noutcomes:     %d\ntables:       %d\n",
		c.Program.Name, c.Code.Name(), c.Code.Size(), c.Program.Qubits,
		c.Data, c.Qubits-c.Data, gates, twoQubit, len(g.Measure), len(c.Outcomes), c.Tables)
	return err
}

// writeFile creates path and runs write on it. A failed Close is reported
// since it can lose buffered output.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	return closeAfter(f, write(f))
}

// closeAfter closes c and returns werr, or the close error when werr is nil.
func closeAfter(c io.Closer, werr error) error {
	if err := c.Close(); err != nil && werr == nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return werr
}

// silence keeps cobra from echoing errors that were already printed.
func silence(cmd *cobra.Command, err error) error {
	if errors.Is(err, errReported) {
		cmd.SilenceErrors = true
	}
	return err
}
