package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shopmate",
	Short: "ShopMate shop with its AI shopping assistant",
	Long: `ShopMate serves a small catalog together with a chat widget that answers
product questions, lists matches and adds items to the cart. The chat
command runs the same widget in a terminal against a running server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "shopmate.yml", "config file path")
	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
