package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"gowilks/adapters/likelihood/gonumopt"
	"gowilks/adapters/reader"
	"gowilks/app"
	"gowilks/domain/model"
	"gowilks/domain/params"
	"gowilks/internal/config"
	"gowilks/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wilks",
		Short: "Profile-likelihood confidence intervals and hypothesis tests",
	}

	rootCmd.AddCommand(
		newIntervalCmd(),
		newHypoTestCmd(),
		newScanCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// calcFlags are the flags shared by every subcommand
type calcFlags struct {
	dataFile  string
	column    string
	modelName string
	init      []string
	fix       []string
	size      float64
}

func (f *calcFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataFile, "data", "", "CSV or Excel file with observations (required)")
	cmd.Flags().StringVar(&f.column, "column", "", "column name of the observable (required)")
	cmd.Flags().StringVar(&f.modelName, "model", "gaussian", "model: gaussian, exponential or poisson")
	cmd.Flags().StringSliceVar(&f.init, "init", nil, "initial parameter values, name=value")
	cmd.Flags().StringSliceVar(&f.fix, "fix", nil, "parameters held constant, name=value")
	cmd.Flags().Float64Var(&f.size, "size", 0, "test size (default from config, 0.05)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("column")
}

func newIntervalCmd() *cobra.Command {
	flags := &calcFlags{}
	var poiNames []string

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Compute a profile-likelihood confidence interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, poi, _, err := buildCalculator(flags, poiNames, nil)
			if err != nil {
				return err
			}

			interval, err := calc.GetInterval(cmd.Context())
			if err != nil {
				return err
			}
			defer interval.Close()

			type bound struct {
				Name  string  `json:"name"`
				Best  float64 `json:"best_fit"`
				Lower float64 `json:"lower"`
				Upper float64 `json:"upper"`
			}
			out := struct {
				ConfidenceLevel float64 `json:"confidence_level"`
				Bounds          []bound `json:"bounds"`
			}{ConfidenceLevel: interval.ConfidenceLevel()}

			for _, p := range poi.Params() {
				lo, hi, err := interval.Bounds(p.Name())
				if err != nil {
					return err
				}
				best, _ := interval.BestFit(p.Name())
				out.Bounds = append(out.Bounds, bound{Name: p.Name(), Best: best.Value, Lower: lo, Upper: hi})
			}
			return printJSON(out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&poiNames, "poi", nil, "parameters of interest (required)")
	_ = cmd.MarkFlagRequired("poi")
	return cmd
}

func newHypoTestCmd() *cobra.Command {
	flags := &calcFlags{}
	var nullSpecs []string

	cmd := &cobra.Command{
		Use:   "hypotest",
		Short: "Test a null hypothesis with the profile likelihood ratio",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, _, _, err := buildCalculator(flags, nil, nullSpecs)
			if err != nil {
				return err
			}

			result, err := calc.GetHypoTest(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(struct {
				PValue       float64 `json:"p_value"`
				Significance float64 `json:"significance"`
				TestStat     float64 `json:"test_statistic"`
			}{result.PValue(), result.Significance(), result.TestStat})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&nullSpecs, "null", nil, "null-hypothesis values, name=value (required)")
	_ = cmd.MarkFlagRequired("null")
	return cmd
}

func newScanCmd() *cobra.Command {
	flags := &calcFlags{}
	var poiNames []string
	var from, to float64
	var points int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the profile likelihood ratio over a POI grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			if points < 2 {
				return fmt.Errorf("--points must be at least 2")
			}
			calc, poi, cfg, err := buildCalculator(flags, poiNames, nil)
			if err != nil {
				return err
			}
			if poi.Len() != 1 {
				return fmt.Errorf("scan requires exactly one POI")
			}

			interval, err := calc.GetInterval(cmd.Context())
			if err != nil {
				return err
			}
			defer interval.Close()

			grid := floats.Span(make([]float64, points), from, to)
			scan, err := app.ScanProfile(cmd.Context(), interval, poi.Names()[0], grid, cfg.Scan.Workers)
			if err != nil {
				return err
			}
			return printJSON(scan)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&poiNames, "poi", nil, "parameter of interest (required)")
	cmd.Flags().Float64Var(&from, "from", 0, "grid start")
	cmd.Flags().Float64Var(&to, "to", 1, "grid end")
	cmd.Flags().IntVar(&points, "points", 41, "grid size")
	_ = cmd.MarkFlagRequired("poi")
	return cmd
}

// buildCalculator assembles the model, dataset and calculator from flags
func buildCalculator(flags *calcFlags, poiNames, nullSpecs []string) (*app.ProfileLikelihoodCalculator, *params.Set, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	data, err := reader.NewDataReader(flags.dataFile).ReadColumn(flags.column)
	if err != nil {
		return nil, nil, nil, err
	}
	summary := testkit.Summarize(data.Values())
	fmt.Fprintf(os.Stderr, "loaded %d observations of %s (mean=%.4g, sd=%.4g)\n",
		summary.N, flags.column, summary.Mean, summary.StdDev)

	m, paramSet, err := buildModel(flags.modelName, summary)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := applyAssignments(paramSet, flags.init, false); err != nil {
		return nil, nil, nil, err
	}
	if err := applyAssignments(paramSet, flags.fix, true); err != nil {
		return nil, nil, nil, err
	}

	poi, err := params.NewSet()
	if err != nil {
		return nil, nil, nil, err
	}
	for _, name := range poiNames {
		p := paramSet.Find(name)
		if p == nil {
			return nil, nil, nil, fmt.Errorf("unknown POI %q for model %s", name, flags.modelName)
		}
		if err := poi.Add(p); err != nil {
			return nil, nil, nil, err
		}
	}

	nullSet, err := parseDetached(nullSpecs)
	if err != nil {
		return nil, nil, nil, err
	}

	size := flags.size
	if size == 0 {
		size = cfg.Inference.TestSize
	}

	backend := gonumopt.New(gonumopt.Config{
		MaxIterations:     cfg.Fit.MaxIterations,
		FastMaxIterations: cfg.Fit.FastMaxIterations,
		Tolerance:         cfg.Fit.Tolerance,
		FastTolerance:     cfg.Fit.FastTolerance,
	})

	calc := app.NewProfileLikelihoodCalculator(backend, app.CalculatorConfig{
		Model:      m,
		Data:       data,
		POI:        poi,
		NullParams: nullSet,
		Size:       size,
	})
	return calc, poi, cfg, nil
}

// buildModel creates a named model with data-driven starting values
func buildModel(name string, summary testkit.Summary) (model.Model, *params.Set, error) {
	switch name {
	case "gaussian":
		mean := params.New("mean", summary.Mean)
		sigma := params.New("sigma", summary.StdDev)
		if summary.StdDev <= 0 {
			sigma.SetValue(1)
		}
		return model.NewGaussian("gaussian", mean, sigma), params.MustNewSet(mean, sigma), nil
	case "exponential":
		start := 1.0
		if summary.Mean > 0 {
			start = 1 / summary.Mean
		}
		rate := params.New("rate", start)
		return model.NewExponential("exponential", rate), params.MustNewSet(rate), nil
	case "poisson":
		start := summary.Mean
		if start <= 0 {
			start = 1
		}
		lambda := params.New("lambda", start)
		return model.NewPoisson("poisson", lambda), params.MustNewSet(lambda), nil
	default:
		return nil, nil, fmt.Errorf("unknown model %q", name)
	}
}

// applyAssignments applies name=value specs to the model's parameters,
// optionally marking them constant
func applyAssignments(set *params.Set, specs []string, constant bool) error {
	for _, spec := range specs {
		name, value, err := parseAssignment(spec)
		if err != nil {
			return err
		}
		p := set.Find(name)
		if p == nil {
			return fmt.Errorf("unknown parameter %q", name)
		}
		p.SetValue(value)
		if constant {
			p.SetConstant(true)
		}
	}
	return nil
}

// parseDetached builds a set of detached parameters from name=value specs
func parseDetached(specs []string) (*params.Set, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	set, err := params.NewSet()
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		name, value, err := parseAssignment(spec)
		if err != nil {
			return nil, err
		}
		if err := set.Add(params.New(name, value)); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func parseAssignment(spec string) (string, float64, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid assignment %q, expected name=value", spec)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid value in %q: %w", spec, err)
	}
	return strings.TrimSpace(parts[0]), value, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
