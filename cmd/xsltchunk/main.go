// cmd/xsltchunk/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stylesheet-ai/xsltchunk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "xsltchunk",
	Short: "Semantic chunking for XSLT stylesheets",
	Long:  `Split large XSLT stylesheets into bounded, semantically coherent chunks for LLM consumers.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("xsltchunk v0.1.0")
	},
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "xsltchunk.yaml", "Path to config file")
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
