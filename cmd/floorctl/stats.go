package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show table counts per state and today's takings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			s := a.mgr.Stats()
			fmt.Fprintln(out, titleStyle.Render("Floor"))
			renderTable(out, []string{"FREE", "OCCUPIED", "AWAITING BILL", "GROUPED", "INACTIVE", "TOTAL"}, [][]string{{
				strconv.Itoa(s.Free), strconv.Itoa(s.Occupied), strconv.Itoa(s.AwaitingBill),
				strconv.Itoa(s.Grouped), strconv.Itoa(s.Inactive), strconv.Itoa(s.Total),
			}})

			// the dashboard is managers only; waiters still get the floor counts
			d, err := a.client.Dashboard(cmd.Context())
			if err != nil {
				a.log.WithError(err).Debug("dashboard not available")
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render("Today"))
			renderTable(out, []string{"OPEN ORDERS", "BILLING", "READY ITEMS", "CLOSED", "REVENUE"}, [][]string{{
				strconv.FormatInt(d.OpenOrders, 10), strconv.FormatInt(d.Billing, 10),
				strconv.FormatInt(d.ReadyItems, 10), strconv.FormatInt(d.TodayClosed, 10), d.RevenueText,
			}})
			return nil
		},
	}
}
