package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/scenario"
	"github.com/kilianp07/effectwarp/pkg/export"
)

var (
	timelineScenario string
	timelineFrom     time.Duration
	timelineTo       time.Duration
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the insulin rate partition and carb suspensions of a scenario",
	RunE:  printTimeline,
}

func init() {
	timelineCmd.Flags().StringVarP(&timelineScenario, "scenario", "s", "", "scenario file (yaml or json)")
	timelineCmd.Flags().DurationVar(&timelineFrom, "start", 0, "window start as an offset from the scenario start")
	timelineCmd.Flags().DurationVar(&timelineTo, "end", 0, "window end as an offset from the scenario start (default horizon)")
	_ = timelineCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(timelineCmd)
}

func printTimeline(cmd *cobra.Command, args []string) error {
	sc, err := scenario.LoadScenario(timelineScenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	start := sc.Start
	if start.IsZero() {
		start = time.Now()
	}
	end := sc.Horizon.Std()
	if cmd.Flags().Changed("end") {
		end = timelineTo
	}
	if end < timelineFrom {
		return fmt.Errorf("end %s before start %s", end, timelineFrom)
	}
	models, err := sc.Build(start)
	if err != nil {
		return err
	}

	window := interval.New(start.Add(timelineFrom), start.Add(end))
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "insulin rate over %s\n", window); err != nil {
		return err
	}
	if err := export.WriteTimeline(out, models.Insulin.EffectTimeline(window)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, "carb suspensions"); err != nil {
		return err
	}
	for _, iv := range models.Carbs.ZeroAbsorptionPeriods().Intervals() {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", iv, interval.Overlap(iv, window)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(out, "accumulated delay\t%s\n", models.Carbs.AccumulatedDelay(window)); err != nil {
		return err
	}
	if len(sc.Meals) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out, "meal absorption"); err != nil {
		return err
	}
	for _, meal := range sc.Meals {
		iv := interval.WithDuration(start.Add(meal.Offset.Std()), meal.AbsorptionTime.Std())
		delayed := iv.Extended(models.Carbs.AccumulatedDelay(iv))
		if _, err := fmt.Fprintf(out, "%gg\t%s\tdelayed to %s\n", meal.Grams, iv, delayed); err != nil {
			return err
		}
	}
	return nil
}
