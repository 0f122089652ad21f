package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/version"
)

func main() {
	if os.Getenv("COSTWATCH_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	var envFile string

	root := cobra.Command{
		Use:   "costwatch",
		Short: "costwatch is a terminal dashboard for LLM provider spend and token usage.",
		Run: func(_ *cobra.Command, _ []string) {
			if envFile != "" {
				cfg.EnvFile = envFile
			}
			RunDashboard(cfg)
		},
	}
	root.Flags().StringVar(&envFile, "env-file", "",
		"env file holding OPENAI_ADMIN_KEY / ANTHROPIC_ADMIN_KEY, watched for changes")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the costwatch version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.String())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
