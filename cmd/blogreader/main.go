package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blogreader",
	Short: "A blog-reading website over a remote Content API",
	Long: `blogreader serves a searchable post listing and a detail page per post,
with highlighted code and SEO metadata, reading everything from a
read-only Content API.

Configuration comes from an optional YAML file overlaid by BLOGREADER_*
environment variables (for example BLOGREADER_API_URL).`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blogreader version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blogreader %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "blogreader.yml", "config file path")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
