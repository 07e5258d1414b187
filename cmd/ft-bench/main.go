package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"github.com/amzilayoub/ft-container-v2/avl"
	"github.com/amzilayoub/ft-container-v2/bench"
	"github.com/amzilayoub/ft-container-v2/logz"
)

var log = logz.Logger.With().Str("bench", "avl").Logger()

func main() {
	root := &cobra.Command{
		Use:   "ft-bench",
		Short: "replay synthetic workloads against the AVL ordered map",
	}
	root.AddCommand(runCommand(context.Background()))

	if err := root.Execute(); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func runCommand(c context.Context) *cobra.Command {
	var (
		seed             int64
		versions         int64
		initialSize      int
		finalSize        int
		changePerVersion int
		deleteFraction   float64
		checkInterval    int64
		versionLimit     int64
	)
	ctx := &bench.RunContext{
		Context: c,
		Log:     log,
	}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "build the map from a generated changeset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.Generator = bench.WorkloadGenerator{
				Seed:             seed,
				KeyMean:          56,
				KeyStdDev:        3,
				ValueMean:        100,
				ValueStdDev:      1200,
				InitialSize:      initialSize,
				FinalSize:        finalSize,
				Versions:         versions,
				ChangePerVersion: changePerVersion,
				DeleteFraction:   deleteFraction,
			}
			ctx.CheckInterval = checkInterval
			ctx.VersionLimit = versionLimit

			labels := map[string]string{}
			labels["backend"] = "avl"

			ctx.MetricTreeSize = promauto.NewGauge(prometheus.GaugeOpts{
				Name:        "ft_tree_size",
				ConstLabels: labels,
			})
			ctx.MetricTreeHeight = promauto.NewGauge(prometheus.GaugeOpts{
				Name:        "ft_tree_height",
				ConstLabels: labels,
			})
			ctx.MetricOpCount = promauto.NewCounter(prometheus.CounterOpts{
				Name:        "ft_tree_op_count",
				Help:        "number of operations processed into the tree",
				ConstLabels: labels,
			})

			m := avl.NewMap[[]byte, []byte](bytes.Compare)
			return ctx.Build(m)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1234, "seed for the data generator")
	cmd.Flags().Int64Var(&versions, "versions", 100, "number of versions to generate")
	cmd.Flags().IntVar(&initialSize, "initial-size", 35_000, "live keys after the first version")
	cmd.Flags().IntVar(&finalSize, "final-size", 500_000, "live keys after the last version")
	cmd.Flags().IntVar(&changePerVersion, "change-per-version", 10_000, "updates and deletes per version")
	cmd.Flags().Float64Var(&deleteFraction, "delete-fraction", 0.06, "fraction of changes that are deletes")
	cmd.Flags().Int64Var(&checkInterval, "check-interval", 0, "verify against a reference map every N versions; 0 disables")
	cmd.Flags().Int64Var(&versionLimit, "version-limit", 0, "stop after this version; 0 runs the full workload")

	return cmd
}
