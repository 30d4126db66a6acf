// Command obstacleavoid-bench runs the controller's reference scenarios
// against the public controller API and reports a table of emitted
// commands, with an optional plot of free path length across the sampled
// curvature sweep for one scenario.
package main

import (
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/viam-labs/obstacleavoid"
	"github.com/viam-labs/obstacleavoid/geometry"
	"github.com/viam-labs/obstacleavoid/internal/obslog"
	"github.com/viam-labs/obstacleavoid/planner"
)

func main() {
	app := &cli.App{
		Name:  "obstacleavoid-bench",
		Usage: "run the controller's reference scenarios and report emitted commands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "plot",
				Usage: "write a free-path-length-vs-curvature plot for scenario S2 to this PNG path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn, or error",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level, err := obslog.LevelFromString(c.String("log-level"))
	if err != nil {
		return err
	}
	logger := obslog.NewLoggerAtLevel("obstacleavoid-bench", level)

	veh := geometry.Vehicle{
		Width: 0.28, Length: 0.5, Wheelbase: 0.32,
		MaxSpeed: 1.0, MaxAcceleration: 4.0, MaxCurvature: 1.0,
	}
	params := obstacleavoid.SamplerParams{
		ControlInterval:           0.05,
		Margin:                    0.05,
		MaxClearance:              0.5,
		CurvatureSamplingInterval: 0.05,
	}

	sampler, err := obstacleavoid.NewSampler(&veh, params, logger)
	if err != nil {
		return err
	}

	rows, err := runScenarios(sampler)
	if err != nil {
		return err
	}
	renderTable(rows)

	plannerSampler, err := planner.NewSampler(&veh, params.ToPlannerConfig(), logger)
	if err != nil {
		return err
	}
	statRows, err := scoreStatistics(plannerSampler)
	if err != nil {
		return err
	}
	renderStatsTable(statRows)

	if path := c.String("plot"); path != "" {
		if err := plotScoreSweep(&veh, params, logger, path); err != nil {
			return err
		}
		logger.Infow("wrote plot", "path", path)
	}
	return nil
}

type scenarioRow struct {
	name         string
	cloud        []r3.Vector
	currentSpeed float64
}

func scenarios() []scenarioRow {
	return []scenarioRow{
		{name: "S1", cloud: nil, currentSpeed: 0},
		{name: "S2", cloud: []r3.Vector{{X: 1.0, Y: 0}}, currentSpeed: 0.5},
		{name: "S3", cloud: []r3.Vector{{X: 0.15, Y: 0}}, currentSpeed: 1.0},
		{name: "S4", cloud: []r3.Vector{{X: 2.0, Y: 0.2}, {X: 2.0, Y: -0.2}}, currentSpeed: 1.0},
	}
}

func runScenarios(sampler *obstacleavoid.Sampler) ([]table.Row, error) {
	scenarios := scenarios()
	rows := make([]table.Row, 0, len(scenarios))
	for _, s := range scenarios {
		cmd, err := sampler.GenerateCommand(s.cloud, s.currentSpeed)
		warning := ""
		if err != nil {
			warning = err.Error()
		}
		rows = append(rows, table.Row{s.name, s.currentSpeed, cmd.Velocity, cmd.Curvature, warning})
	}
	return rows, nil
}

func renderTable(rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"scenario", "v_in", "v_out", "kappa", "warning"})
	for _, r := range rows {
		t.AppendRow(r)
	}
	t.Render()
}

// scoreStatistics computes the mean and (unbiased sample) variance of each
// scenario's sampled candidate scores, via gonum's stat package, as a
// quick diagnostic on how sharply the winning arc stands out from the
// rest of the sweep.
func scoreStatistics(sampler *planner.Sampler) ([]table.Row, error) {
	rows := make([]table.Row, 0, len(scenarios()))
	for _, s := range scenarios() {
		_, candidates, err := sampler.GenerateCommandWithCandidates(s.cloud, s.currentSpeed)
		if err != nil && len(candidates) == 0 {
			return nil, err
		}
		scores := make([]float64, len(candidates))
		for i, cand := range candidates {
			scores[i] = cand.Score
		}
		mean, variance := stat.MeanVariance(scores, nil)
		rows = append(rows, table.Row{s.name, len(scores), mean, variance})
	}
	return rows, nil
}

func renderStatsTable(rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"scenario", "candidates", "score_mean", "score_variance"})
	for _, r := range rows {
		t.AppendRow(r)
	}
	t.Render()
}

// plotScoreSweep renders free path length against sampled curvature for
// scenario S2's cloud, one point per sampled arc.
func plotScoreSweep(veh *geometry.Vehicle, params obstacleavoid.SamplerParams, logger obslog.Logger, path string) error {
	plannerSampler, err := planner.NewSampler(veh, params.ToPlannerConfig(), logger)
	if err != nil {
		return err
	}
	cloud := []r3.Vector{{X: 1.0, Y: 0}}
	_, candidates, _ := plannerSampler.GenerateCommandWithCandidates(cloud, 0.5)

	pts := make(plotter.XYs, len(candidates))
	for i, cand := range candidates {
		pts[i].X = cand.Curvature
		pts[i].Y = cand.FreePathLength
	}

	p := plot.New()
	p.Title.Text = "free path length vs. sampled curvature (S2)"
	p.X.Label.Text = "curvature (1/m)"
	p.Y.Label.Text = "free path length (m)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
