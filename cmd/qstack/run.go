package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qstack/internal/diag"
	"qstack/internal/runner"
	"qstack/internal/sim"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <program.toml>",
	Short: "Compile a program and sample it on the noisy simulator",
	Long: `Compile a logical program, execute it shot by shot on the
stabilizer simulator with the configured noise, decode every shot and
print the histogram of logical outcomes ("?" marks an undefined result).`,
	Args: cobra.ExactArgs(1),
	RunE: runExecution,
}

func init() {
	addEncodeFlags(runCmd)
	f := runCmd.Flags()
	f.Int("shots", 0, "number of shots (default from qstack.toml, else 100)")
	f.Uint64("seed", 0, "base seed; shot i uses stream (seed, i)")
	f.Int("workers", 0, "concurrent shots (0: GOMAXPROCS)")
	f.Float64("noise-gate1", 0, "depolarizing probability after one-qubit gates")
	f.Float64("noise-gate2", 0, "depolarizing probability after two-qubit gates")
	f.Float64("noise-measure", 0, "readout flip probability")
	f.Float64("noise-prepare", 0, "preparation flip probability")
	f.String("ui", "auto", "progress UI (auto|on|off)")
}

func runExecution(cmd *cobra.Command, args []string) error {
	job, err := compileProgram(cmd, args[0])
	if err != nil {
		return silence(cmd, err)
	}

	rc := job.cfg.Run
	f := cmd.Flags()
	if f.Changed("shots") {
		rc.Shots, _ = f.GetInt("shots")
	}
	if f.Changed("seed") {
		rc.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("workers") {
		rc.Workers, _ = f.GetInt("workers")
	}
	for flag, dst := range map[string]*float64{
		"noise-gate1":   &rc.Noise.Gate1,
		"noise-gate2":   &rc.Noise.Gate2,
		"noise-measure": &rc.Noise.Measure,
		"noise-prepare": &rc.Noise.Prepare,
	} {
		if f.Changed(flag) {
			*dst, _ = f.GetFloat64(flag)
		}
	}
	if err := rc.Noise.Validate(); err != nil {
		return err
	}
	uiValue, err := f.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	showUI, err := useProgressUI(uiValue, quiet, os.Stdout)
	if err != nil {
		return err
	}

	backend := &sim.Simulator{Noise: rc.Noise, Seed: rc.Seed}
	runBag := diag.NewBag(int(job.bag.Cap()))
	opts := runner.Options{
		Shots:    rc.Shots,
		Workers:  rc.Workers,
		Reporter: &diag.BagReporter{Bag: runBag},
	}

	idx := job.timer.Begin("run")
	var res *runner.Result
	if showUI {
		detail := fmt.Sprintf("%s on %s, seed %d", job.prog.Name, job.compiled.Code.Name(), rc.Seed)
		res, err = runWithUI(cmd.Context(), args[0], detail, job.compiled, backend, opts)
	} else {
		res, err = runner.Run(cmd.Context(), job.compiled, backend, opts)
	}
	job.timer.End(idx, fmt.Sprintf("%d shots", rc.Shots))
	printDiagnostics(cmd.ErrOrStderr(), runBag, args[0], quiet)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if err := runner.WriteHistogram(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	printTimings(cmd, cmd.ErrOrStderr(), job.timer)
	return nil
}
