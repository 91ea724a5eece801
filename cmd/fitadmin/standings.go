package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"schoolfit/internal/service"
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the house standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, _, closeStore, err := openUsers(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tHOUSE\tPOINTS\tMEMBERS\tWORKOUTS")
		for i, standing := range service.NewHouseService(users).Standings() {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\n", i+1, standing.House, standing.Points, standing.Members, standing.Workouts)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(standingsCmd)
}
