package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"zmctl/pkg/models"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the server and API version",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := api.Version(ctx)
		if err != nil {
			fail("Error fetching version: %v", err)
		}

		var v models.Version
		if structuredOutput() || resp.Decode(&v) != nil {
			printResponse(resp)
			return
		}
		fmt.Printf("ZoneMinder %s (API %s)\n", v.Version, v.APIVersion)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the capture daemons are running",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := api.Status(ctx)
		if err != nil {
			fail("Error checking daemons: %v", err)
		}

		var st models.DaemonStatus
		if structuredOutput() || resp.Decode(&st) != nil {
			printResponse(resp)
			return
		}
		if st.Running() {
			fmt.Println("Daemons are running.")
		} else {
			fmt.Println("Daemons are stopped.")
		}
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the ZoneMinder daemons",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := api.Restart(ctx)
		if err != nil {
			fail("Error restarting: %v", err)
		}
		printResponse(resp)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(restartCmd)
}
