package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List enabled monitors",
	Long: `List enabled monitors in server order. With --json or --yaml the records
are printed exactly as the server returned them.`,
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		monitors, err := api.Monitors(ctx)
		if err != nil {
			fail("Error fetching monitors: %v", err)
		}

		if structuredOutput() {
			if err := printStructured(os.Stdout, monitors); err != nil {
				fail("Error encoding output: %v", err)
			}
			return
		}

		if len(monitors) == 0 {
			fmt.Println("No enabled monitors.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tFUNCTION\tTYPE\tSERVER")
		fmt.Fprintln(w, "--\t----\t--------\t----\t------")

		for _, m := range monitors {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Function, m.Type, m.ServerID)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(monitorsCmd)
}
