package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usagewatch/usagewatch/pkg/notify"
)

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a test notification through every configured backend",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	notifiers := initNotifiers(cfg)
	if len(notifiers) == 0 {
		return fmt.Errorf("no notification backends enabled")
	}

	alert := notify.Alert{
		Title:    "usagewatch",
		Subtitle: "Test Notification",
		Body:     "If you see this, notifications are working!",
	}

	for _, n := range notifiers {
		if err := n.Send(cmd.Context(), alert); err != nil {
			fmt.Printf("%-10s failed: %v\n", n.Name()+":", err)
			continue
		}
		fmt.Printf("%-10s ok\n", n.Name()+":")
	}

	return nil
}
