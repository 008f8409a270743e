package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewProcessCmd создаёт группу команд one-shot обработки.
func NewProcessCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process leads through the scoring pipeline",
	}

	cmd.AddCommand(
		newProcessBatchCmd(clientFn, outputFn),
		newProcessOneCmd(clientFn, outputFn),
	)

	return cmd
}

func newProcessBatchCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file, apiKey string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process a batch of leads from a JSON file",
		Long: `Process a batch of leads from a JSON file.

The file must contain a ProcessRequest document:

  {
    "wildnet_data": "...",
    "scoring_criteria_and_icp": "...",
    "message_prompt": "...",
    "leads": [{"lead_id": "...", "name": "...", ...}]
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			var req ProcessRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}
			if apiKey != "" {
				req.APIKey = apiKey
			}

			resp, err := client.ProcessLeads(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf(
				"Processed batch: total=%d, processed=%d, skipped=%d, no_key=%d, errors=%d",
				resp.Total, resp.Processed, resp.Skipped, resp.NoKey, resp.Errors,
			))

			headers := []string{"LEAD ID", "NAME", "OUTCOME", "SCORE", "ERROR"}
			rows := make([][]string, len(resp.Results))
			for i, r := range resp.Results {
				rows[i] = []string{r.LeadID, r.Name, r.Outcome, strconv.Itoa(r.Score), r.Error}
			}

			out.Print(headers, rows, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON batch file (required)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key override (default: server-side pool)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newProcessOneCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file, apiKey string

	cmd := &cobra.Command{
		Use:   "one",
		Short: "Process a single lead from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			var req ProcessSingleRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("failed to parse %s: %w", file, err)
			}
			if apiKey != "" {
				req.APIKey = apiKey
			}

			resp, err := client.ProcessLead(req)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"LEAD ID", "NAME", "OUTCOME", "SCORE", "CONTACT"},
				[][]string{{
					resp.LeadID,
					resp.Name,
					resp.Outcome,
					strconv.Itoa(resp.Score),
					strconv.Itoa(resp.ShouldContact),
				}},
				resp,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON lead file (required)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key override (default: server-side pool)")
	cmd.MarkFlagRequired("file")

	return cmd
}
