package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/optimize"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval             int     `csv:"eval"`
	Fitness          float64 `csv:"fitness"`
	Cost             float64 `csv:"cost"`
	Harmony          float64 `csv:"harmony"`
	WaterQuality     float64 `csv:"water_quality_min"`
	Stress           float64 `csv:"stress"`
	BaseCapacity     float64 `csv:"base_capacity"`
	OxygenCapacity   float64 `csv:"oxygen_capacity"`
	FiltrationFactor float64 `csv:"filtration_factor"`
	HabitatFactor    float64 `csv:"habitat_factor"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// newMethod returns the gonum search method for name.
func newMethod(name string, dim int) (optimize.Method, error) {
	switch name {
	case "nelder-mead":
		return &optimize.NelderMead{SimplexSize: 0.2}, nil
	case "cmaes":
		return &optimize.CmaEsChol{
			InitStepSize: 0.3,
			Population:   4 + 3*dim/2,
		}, nil
	}
	return nil, fmt.Errorf("unknown method %q (want nelder-mead or cmaes)", name)
}

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Search for the cheapest tank that keeps the community healthy",
		Long: `Tune searches tank capacity, oxygen, filtration and habitat for the
lowest equipment cost whose runs still meet the harmony, water quality
and stress targets. Every evaluation is logged to optimize_log.csv and
the best tank is saved as best_config.yaml in --output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			baseCfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			outputDir, _ := cmd.Flags().GetString("output")
			maxTicks, _ := cmd.Flags().GetUint64("max-ticks")
			seeds, _ := cmd.Flags().GetInt("seeds")
			maxEvals, _ := cmd.Flags().GetInt("max-evals")
			methodName, _ := cmd.Flags().GetString("method")
			var targets Targets
			targets.MinHarmony, _ = cmd.Flags().GetFloat64("min-harmony")
			targets.MinWaterQuality, _ = cmd.Flags().GetFloat64("min-water")
			targets.MaxStress, _ = cmd.Flags().GetFloat64("max-stress")

			if outputDir == "" {
				return fmt.Errorf("--output is required")
			}
			if maxTicks == 0 || seeds < 1 || maxEvals < 1 {
				return fmt.Errorf("--max-ticks, --seeds and --max-evals must be positive")
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			params := NewParamVector()
			method, err := newMethod(methodName, params.Dim())
			if err != nil {
				return err
			}

			// Generate seeds for evaluation
			evalSeeds := make([]uint32, seeds)
			for i := range evalSeeds {
				evalSeeds[i] = uint32(i*1000 + 42)
			}
			evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, baseCfg, targets)

			logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
			if err != nil {
				return fmt.Errorf("creating log file: %w", err)
			}
			defer logFile.Close()

			out := cmd.OutOrStdout()
			evalCount := 0
			bestFitness := 1e9
			var bestParams []float64
			startTime := time.Now()

			problem := optimize.Problem{
				Func: func(x []float64) float64 {
					raw := params.Clamp(params.Denormalize(x))
					fitness := evaluator.Evaluate(raw)
					quality := evaluator.LastQuality()
					evalCount++

					if fitness < bestFitness {
						bestFitness = fitness
						bestParams = raw
					}

					rec := []evalRecord{{
						Eval:             evalCount,
						Fitness:          fitness,
						Cost:             params.Cost(raw),
						Harmony:          quality.Harmony,
						WaterQuality:     quality.WaterQuality,
						Stress:           quality.Stress,
						BaseCapacity:     raw[0],
						OxygenCapacity:   raw[1],
						FiltrationFactor: raw[2],
						HabitatFactor:    raw[3],
					}}
					var werr error
					if evalCount == 1 {
						werr = gocsv.Marshal(rec, logFile)
					} else {
						werr = gocsv.MarshalWithoutHeaders(rec, logFile)
					}
					if werr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "failed to log evaluation: %v\n", werr)
					}

					elapsed := time.Since(startTime)
					avgPerEval := elapsed / time.Duration(evalCount)
					remaining := time.Duration(maxEvals-evalCount) * avgPerEval
					fmt.Fprintf(out, "Eval %d/%d: fitness=%.4f harmony=%.3f water=%.3f stress=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
						evalCount, maxEvals, fitness, quality.Harmony, quality.WaterQuality, quality.Stress,
						bestFitness, formatDuration(elapsed), formatDuration(remaining))
					return fitness
				},
			}
			settings := &optimize.Settings{
				FuncEvaluations: maxEvals,
				Concurrent:      0, // Sequential; seeds already run in parallel
			}
			initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

			fmt.Fprintf(out, "Starting %s search over %d parameters, max_evals=%d\n", methodName, params.Dim(), maxEvals)
			fmt.Fprintf(out, "Seeds per evaluation: %d, ticks per run: %d\n", seeds, maxTicks)

			result, err := optimize.Minimize(problem, initX, settings, method)
			if err != nil {
				fmt.Fprintf(out, "optimization ended: %v\n", err)
			}
			if bestParams == nil && result != nil {
				bestParams = params.Clamp(params.Denormalize(result.X))
			}
			if bestParams == nil {
				return fmt.Errorf("no evaluations completed")
			}

			fmt.Fprintf(out, "\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
			fmt.Fprintf(out, "Best fitness: %.4f\n", bestFitness)
			fmt.Fprintln(out, "\nBest parameters:")
			for i, spec := range params.Specs {
				fmt.Fprintf(out, "  %s: %.6f\n", spec.Path, bestParams[i])
			}

			bestCfg := evaluator.configFor(bestParams)
			configOutPath := filepath.Join(outputDir, "best_config.yaml")
			if err := bestCfg.WriteYAML(configOutPath); err != nil {
				return fmt.Errorf("writing best config: %w", err)
			}
			fmt.Fprintf(out, "\nBest config saved to: %s\n", configOutPath)
			return nil
		},
	}

	cmd.Flags().String("output", "", "Output directory for results")
	cmd.Flags().Uint64("max-ticks", 6000, "Simulation length per run in ticks")
	cmd.Flags().Int("seeds", 3, "Number of seeds per evaluation")
	cmd.Flags().Int("max-evals", 200, "Maximum number of evaluations")
	cmd.Flags().String("method", "nelder-mead", "Search method: nelder-mead or cmaes")
	cmd.Flags().Float64("min-harmony", 0.75, "Target mean harmony")
	cmd.Flags().Float64("min-water", 0.6, "Target minimum water quality")
	cmd.Flags().Float64("max-stress", 0.35, "Target mean fish stress")

	return cmd
}
