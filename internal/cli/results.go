package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewResultsCmd создаёт группу команд для просмотра результатов скоринга.
func NewResultsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect scoring results",
	}

	cmd.AddCommand(
		newResultsListCmd(clientFn, outputFn),
		newResultsShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newResultsListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scoring results",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			results, err := client.ListResults(limit, offset)
			if err != nil {
				return err
			}

			headers := []string{"LEAD ID", "NAME", "SCORE", "CONTACT", "LOCATION"}
			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = []string{
					r.LeadID,
					r.Name,
					strconv.Itoa(r.Score),
					strconv.Itoa(r.ShouldContact),
					r.Location,
				}
			}

			out.Print(headers, rows, results)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")

	return cmd
}

func newResultsShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show LEAD_ID",
		Short: "Show the scoring result for a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.GetResult(args[0])
			if err != nil {
				return err
			}

			headers := []string{"LEAD ID", "NAME", "SCORE", "CONTACT", "SUBJECT"}
			rows := [][]string{{
				result.LeadID,
				result.Name,
				strconv.Itoa(result.Score),
				strconv.Itoa(result.ShouldContact),
				result.Subject,
			}}

			out.Print(headers, rows, result)
			return nil
		},
	}
}
