package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/usagewatch/usagewatch/pkg/monitor"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch current usage once and print it",
	Long:  `Perform a single fetch against the usage API and print the result without touching notification state.`,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	desc, err := loadDescriptor(cfg)
	if err != nil {
		return err
	}

	fetcher := usage.NewFetcher(desc, cfg.FetchTimeout(), logger)
	snap, err := fetcher.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Printf("5h: %s%% | 7d: %s%%\n", usage.FormatValue(snap.FiveHour), usage.FormatValue(snap.SevenDay))
	if snap.FiveHourReset != "" {
		fmt.Printf("  5-hour window:  %s (%s)\n",
			monitor.FormatRelativeReset(snap.FiveHourReset, now),
			monitor.FormatAbsoluteReset(snap.FiveHourReset, time.Local))
	}
	if snap.SevenDayReset != "" {
		fmt.Printf("  7-day window:   %s (%s)\n",
			monitor.FormatRelativeReset(snap.SevenDayReset, now),
			monitor.FormatAbsoluteResetWithDay(snap.SevenDayReset, time.Local))
	}

	return nil
}
