package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"zmctl/pkg/models"
)

// Variables to hold flag values
var (
	alarmMonitorID int
	alarmCommand   string
)

var alarmCmd = &cobra.Command{
	Use:   "alarm",
	Short: "Raise, cancel or query a monitor alarm",
	Example: `  zmctl alarm --id 3 --cmd on
  zmctl alarm --id 3 --cmd status`,
	Run: func(cmd *cobra.Command, args []string) {
		command := strings.ToLower(alarmCommand)
		switch command {
		case "on", "off", "status":
		default:
			fail("Error: --cmd must be one of on, off, status (got %q)", alarmCommand)
		}

		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := api.Alarm(ctx, alarmMonitorID, command)
		if err != nil {
			fail("Error sending alarm command: %v", err)
		}

		if structuredOutput() {
			printResponse(resp)
			return
		}

		var status models.AlarmStatus
		if err := resp.Decode(&status); err != nil || status.Status == "" {
			printResponse(resp)
			return
		}
		fmt.Printf("Monitor %d alarm: %s\n", alarmMonitorID, status.Status)
	},
}

func init() {
	rootCmd.AddCommand(alarmCmd)

	alarmCmd.Flags().IntVar(&alarmMonitorID, "id", 0, "ID of the monitor")
	alarmCmd.Flags().StringVar(&alarmCommand, "cmd", "status", "Alarm command: on, off or status")
	_ = alarmCmd.MarkFlagRequired("id")
}
