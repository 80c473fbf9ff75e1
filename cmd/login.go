package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"zmctl/internal/client"
	"zmctl/internal/config"
)

// Variables to hold flag values
var (
	host     string
	user     string
	pass     string
	authMode string
	insecure bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the ZoneMinder server",
	Long: `Verifies the credentials against the server, reports which login protocol
it accepted, and saves the connection settings locally for future commands.
The saved file contains the password and is only readable by you.

Example:
  zmctl login --host "http://10.0.0.5/zm" --username admin --password pass`,
	Run: func(cmd *cobra.Command, args []string) {
		settings := config.Settings{
			Host:     host,
			User:     user,
			Password: pass,
			AuthMode: authMode,
			Insecure: insecure,
		}

		api, err := client.New(settings.ClientConfig(&logger))
		if err != nil {
			log.Fatalf("Fatal: %v", err)
		}

		fmt.Printf("Authenticating against %s as user '%s'...\n", api.Config.Host, user)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		mode, err := api.Login(ctx)
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Printf("Login successful (%s session). Saving configuration...\n", mode)

		// Keep the negotiated protocol unless the user asked for auto explicitly.
		if settings.AuthMode == "" {
			settings.AuthMode = string(mode)
		}
		settings.Host = api.Config.Host

		path, err := config.SaveCredentials(settings)
		if err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Settings saved to %s. You can now run commands like 'zmctl cameras'.\n", path)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "Server URL including the ZoneMinder path (e.g. http://192.168.1.50/zm)")
	loginCmd.Flags().StringVarP(&user, "username", "u", "admin", "ZoneMinder username")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "ZoneMinder password")
	loginCmd.Flags().StringVar(&authMode, "auth-mode", "", "Login protocol: auto, token or cookie (default: detect)")
	loginCmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("password")
}
