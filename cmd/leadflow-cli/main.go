// Leadflow CLI — инструмент командной строки для просмотра backlog'а,
// результатов скоринга и разовой обработки лидов через HTTP API.
//
// Использование:
//
//	leadflow [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	leads    Просмотр backlog'а
//	results  Просмотр результатов скоринга
//	process  Разовая обработка лидов
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildnetedge/leadflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "leadflow",
		Short:         "Leadflow CLI — lead scoring pipeline tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewLeadsCmd(clientFn, outputFn),
		cli.NewResultsCmd(clientFn, outputFn),
		cli.NewProcessCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
