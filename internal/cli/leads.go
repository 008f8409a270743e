package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewLeadsCmd создаёт группу команд для просмотра лидов.
func NewLeadsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect the lead backlog",
	}

	cmd.AddCommand(
		newLeadsListCmd(clientFn, outputFn),
		newLeadsCountCmd(clientFn, outputFn),
		newLeadsEnqueueCmd(clientFn, outputFn),
	)

	return cmd
}

func newLeadsListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads waiting for processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			leads, err := client.ListEligible(limit)
			if err != nil {
				return err
			}

			headers := []string{"LEAD ID", "NAME", "TITLE", "COMPANY", "LOCATION"}
			rows := make([][]string, len(leads))
			for i, l := range leads {
				rows[i] = []string{l.LeadID, l.Name, l.Title, l.CompanyName, l.Location}
			}

			out.Print(headers, rows, leads)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of leads (0 = all)")

	return cmd
}

func newLeadsEnqueueCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue LEAD_ID...",
		Short: "Notify the worker about new leads",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			enqueued, err := client.EnqueueLeads(args)
			if err != nil {
				return err
			}

			out.Success("Enqueued " + strconv.Itoa(enqueued) + " lead(s)")
			return nil
		},
	}
}

func newLeadsCountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the backlog size",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			count, err := client.CountEligible()
			if err != nil {
				return err
			}

			out.Print(
				[]string{"BACKLOG"},
				[][]string{{strconv.Itoa(count)}},
				map[string]int{"count": count},
			)
			return nil
		},
	}
}
