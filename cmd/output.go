package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"zmctl/internal/client"
	"zmctl/internal/config"
)

// getClient builds a client from the saved config and environment.
func getClient() *client.ZoneMinderClient {
	settings := config.Load()
	if settings.Host == "" || settings.User == "" || settings.Password == "" {
		fmt.Println("Error: Not configured. Run 'zmctl login' first or set ZM_HOST, ZM_USER and ZM_PASSWORD.")
		os.Exit(1)
	}

	api, err := client.New(settings.ClientConfig(&logger))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return api
}

// commandContext bounds a command by the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func structuredOutput() bool {
	return jsonOutput || yamlOutput
}

// printStructured writes v as JSON, or YAML with --yaml.
func printStructured(w io.Writer, v any) error {
	if !yamlOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	// Round trip through JSON so raw server records keep their field names.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// printResponse prints a passthrough reply: JSON bodies structured, text as is.
func printResponse(resp *client.Response) {
	if !resp.JSON {
		fmt.Println(resp.String())
		return
	}
	var generic any
	if err := resp.Decode(&generic); err != nil {
		fmt.Println(resp.String())
		return
	}
	if err := printStructured(os.Stdout, generic); err != nil {
		fmt.Printf("Error encoding output: %v\n", err)
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
