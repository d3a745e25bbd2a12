package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/yorch88/tech-performance/internal/gendata"
)

func main() {
	defaults := gendata.NewConfig()
	var (
		outDir   = flag.String("out", defaults.OutDir, "Directory to write the generated report into")
		kind     = flag.String("kind", defaults.Kind, "Report kind: week or month")
		period   = flag.Int("period", defaults.Period, "Period number used in the file name")
		units    = flag.Int("units", defaults.Units, "Number of units flowing through the line")
		seed     = flag.Int64("seed", defaults.Seed, "Random seed; same seed reproduces the same file")
		failRate = flag.Float64("fail-rate", defaults.FailRate, "Per-station failure probability")
		repair   = flag.String("repair-station", defaults.RepairStation, "Name of the repair station")
		stations = flag.String("stations", strings.Join(defaults.Stations, ","), "Comma-separated flow stations in line order")
	)
	flag.Parse()

	cfg := gendata.NewConfig()
	cfg.OutDir = *outDir
	cfg.Kind = *kind
	cfg.Period = *period
	cfg.Units = *units
	cfg.Seed = *seed
	cfg.FailRate = *failRate
	cfg.RepairStation = *repair
	if *stations != "" {
		cfg.Stations = strings.Split(*stations, ",")
	}

	path, err := gendata.Run(context.Background(), cfg)
	if err != nil {
		os.Stderr.WriteString("generate failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	os.Stdout.WriteString(path + "\n")
}
