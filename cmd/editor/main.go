package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/framewright/framewright-editor/internal/config"
)

func main() {
	// A missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "editor",
		Short: "Framewright timeline editor agent",
		Long:  "Framewright editor: a local agent that manages video composition projects,\ntimeline editing sessions and remote renders.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("framewright-editor %s (built %s, commit %s)\n",
				config.Version, config.BuildTime, config.GitCommit)
		},
	}
}
