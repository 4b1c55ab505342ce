package cmd

import (
	"fmt"
	"os"

	cfgpkg "hub-dashboard/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	// Overrides applied on top of the loaded configuration when set.
	flagAddr      string
	flagDebug     bool
	flagCustomers string
	flagHubs      string

	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve the hotel and resto customer dashboard",
	Long: `dashboard loads the customer and hub tables, computes visit and
location statistics and serves them as a single page on a local web server.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ./dashboard.yaml when present)")
	f.StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	f.BoolVar(&flagDebug, "debug", false, "debug logging and gin debug mode")
	f.StringVar(&flagCustomers, "customers", "", "customer table path (overrides config)")
	f.StringVar(&flagHubs, "hubs", "", "hub table path (overrides config)")

	rootCmd.AddCommand(serveCmd, configCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	// .env is optional
	_ = godotenv.Load(".env")

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("addr") {
		c.Addr = flagAddr
	}
	if f.Changed("debug") {
		c.Debug = flagDebug
	}
	if f.Changed("customers") {
		c.CustomersPath = flagCustomers
	}
	if f.Changed("hubs") {
		c.HubsPath = flagHubs
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}
