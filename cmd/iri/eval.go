package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iri2020/internal/iri"
	"iri2020/internal/models"
	"iri2020/internal/settings"
)

// Query flags shared by eval and lowlevel.
var (
	lat, lon     float64
	alts         []float64
	altMin       float64
	altMax       float64
	altN         int
	settingsFile string
	benchmark    bool

	evalTime string

	year      int
	day       int
	utSeconds float64
)

func init() {
	for _, c := range []*cobra.Command{evalCmd, lowLevelCmd} {
		c.Flags().Float64Var(&lat, "lat", 0, "geographic latitude in degrees")
		c.Flags().Float64Var(&lon, "lon", 0, "geographic longitude in degrees")
		c.Flags().Float64SliceVar(&alts, "alt", nil, "explicit altitudes in km, comma separated")
		c.Flags().Float64Var(&altMin, "alt-min", iri.DefaultMinAltitude, "lowest grid altitude in km")
		c.Flags().Float64Var(&altMax, "alt-max", iri.DefaultMaxAltitude, "highest grid altitude in km")
		c.Flags().IntVar(&altN, "alt-n", iri.DefaultAltitudes, "number of grid altitudes")
		c.Flags().StringVarP(&settingsFile, "settings", "s", "", "YAML, TOML or JSON settings file")
		c.Flags().BoolVar(&benchmark, "benchmark", false, "include stage timings in the output")
		_ = c.MarkFlagRequired("lat")
		_ = c.MarkFlagRequired("lon")
	}

	evalCmd.Flags().StringVarP(&evalTime, "time", "t", "", "RFC 3339 timestamp (default now)")

	lowLevelCmd.Flags().IntVar(&year, "year", 0, "year")
	lowLevelCmd.Flags().IntVar(&day, "day", 0, "day of year, 1-366")
	lowLevelCmd.Flags().Float64Var(&utSeconds, "ut", 0, "universal time in seconds of day")
	_ = lowLevelCmd.MarkFlagRequired("year")
	_ = lowLevelCmd.MarkFlagRequired("day")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(lowLevelCmd)
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the model for a time and location",
	Long: `eval runs IRI-2020 at one location and time over an altitude grid.
The time is converted to UTC and the longitude wrapped into [0, 360).`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

var lowLevelCmd = &cobra.Command{
	Use:   "lowlevel",
	Short: "Run the model for an explicit year, day and UT",
	Long: `lowlevel runs IRI-2020 with the year, day of year and universal time
passed straight to the model. The result carries no date.`,
	Args: cobra.NoArgs,
	RunE: runLowLevel,
}

func runEval(cmd *cobra.Command, args []string) error {
	when := time.Now().UTC()
	if evalTime != "" {
		t, err := time.Parse(time.RFC3339, evalTime)
		if err != nil {
			return fmt.Errorf("%w: --time must be RFC 3339: %v", settings.ErrInvalidInput, err)
		}
		when = t
	}

	return runQuery(cmd, func(model *iri.Model, grid []float64) (*models.QueryResult, error) {
		_, res, err := model.Evaluate(cmd.Context(), when, lat, lon, grid, nil)
		return res, err
	})
}

func runLowLevel(cmd *cobra.Command, args []string) error {
	return runQuery(cmd, func(model *iri.Model, grid []float64) (*models.QueryResult, error) {
		_, res, err := model.LowLevel(cmd.Context(), lat, lon, grid, year, day, utSeconds, nil)
		return res, err
	})
}

type queryFunc func(model *iri.Model, grid []float64) (*models.QueryResult, error)

func runQuery(cmd *cobra.Command, run queryFunc) error {
	grid, err := altitudeGrid(cmd)
	if err != nil {
		return err
	}

	model, err := openModel(settingsFile, benchmark)
	if err != nil {
		return err
	}
	defer model.Close()

	res, err := run(model, grid)
	if err != nil {
		return err
	}

	if benchmark {
		return printJSON(cmd, struct {
			Result    *models.QueryResult `json:"result"`
			Benchmark *iri.Benchmark      `json:"benchmark"`
		}{res, model.Benchmark()})
	}
	return printJSON(cmd, res)
}

// altitudeGrid returns --alt when given, otherwise the evenly spaced grid.
func altitudeGrid(cmd *cobra.Command) ([]float64, error) {
	gridSet := cmd.Flags().Changed("alt-min") || cmd.Flags().Changed("alt-max") || cmd.Flags().Changed("alt-n")
	if len(alts) > 0 {
		if gridSet {
			return nil, fmt.Errorf("%w: give either --alt or the --alt-min/--alt-max/--alt-n grid, not both", settings.ErrInvalidInput)
		}
		return alts, nil
	}
	return iri.AltGrid(altMin, altMax, altN)
}
