package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"zmctl/pkg/models"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List all servers of a multi-server install",
	Run: func(cmd *cobra.Command, args []string) {
		api := getClient()
		ctx, cancel := commandContext(cmd)
		defer cancel()

		servers, err := api.Servers(ctx)
		if err != nil {
			fail("Error fetching servers: %v", err)
		}

		list := make([]models.Server, 0, len(servers))
		for _, srv := range servers {
			list = append(list, srv)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID.Int() < list[j].ID.Int() })

		if structuredOutput() {
			if err := printStructured(os.Stdout, list); err != nil {
				fail("Error encoding output: %v", err)
			}
			return
		}

		if len(list) == 0 {
			fmt.Println("No servers defined (single-server install).")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tHOSTNAME\tSTATUS")
		fmt.Fprintln(w, "--\t----\t--------\t------")

		for _, srv := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", srv.ID, srv.Name, srv.Hostname, srv.Status)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
}
