package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/effectwarp/config"
	coremetrics "github.com/kilianp07/effectwarp/core/metrics"
	"github.com/kilianp07/effectwarp/core/scenario"
	"github.com/kilianp07/effectwarp/infra/logger"
	_ "github.com/kilianp07/effectwarp/infra/metrics"
	"github.com/kilianp07/effectwarp/pkg/export"
)

var (
	scenarioPath string
	outFormat    string
	outPath      string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Sample a scenario over its horizon and export the result",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (yaml or json)")
	simulateCmd.Flags().StringVarP(&outFormat, "output", "o", "csv", "output format: csv, json or html")
	simulateCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	_ = simulateCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := scenario.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	// Sinks are only used when a configuration file is given explicitly.
	var sink coremetrics.SampleSink = coremetrics.NopSink{}
	if cmd.Flags().Changed("config") {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			return err
		}
		if sink, err = coremetrics.NewSampleSink(cfg.Metrics.Sinks); err != nil {
			return fmt.Errorf("metrics sink: %w", err)
		}
	}

	res, err := scenario.NewSimulator(sink, logger.New("simulate")).Run(ctx, sc)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch outFormat {
	case "csv":
		return export.WriteCSV(w, res.Samples)
	case "json":
		return export.WriteJSON(w, res.Samples)
	case "html":
		return export.WriteChartHTML(w, sc.Name, res.Samples)
	default:
		return fmt.Errorf("unsupported output format: %s", outFormat)
	}
}
