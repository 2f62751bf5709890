package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usagewatch/usagewatch/pkg/notify"
	"github.com/usagewatch/usagewatch/pkg/statestore"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset notification state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which thresholds have already been notified",
	RunE:  runStateShow,
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear notification history so all thresholds can fire again",
	RunE:  runStateReset,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
}

func runStateShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := statestore.NewStore(cfg.State.Path, newLogger(cfg))
	state := store.Load()

	for _, metric := range usage.Metrics {
		sent := state.Sent(metric)
		if len(sent) == 0 {
			fmt.Printf("%-10s no thresholds notified\n", notify.MetricLabel(metric)+":")
			continue
		}
		parts := make([]string, len(sent))
		for i, t := range sent {
			parts[i] = fmt.Sprintf("%d%%", t)
		}
		fmt.Printf("%-10s notified at %s\n", notify.MetricLabel(metric)+":", strings.Join(parts, ", "))
	}

	return nil
}

func runStateReset(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := statestore.NewStore(cfg.State.Path, newLogger(cfg))
	if err := store.Save(statestore.NewState()); err != nil {
		return fmt.Errorf("reset notification state: %w", err)
	}

	fmt.Println("Notification history has been cleared")
	return nil
}
