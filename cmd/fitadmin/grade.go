package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"schoolfit/internal/models"
	"schoolfit/internal/napfa"
)

var (
	gradeAge    int
	gradeGender string
	gradeScores models.NapfaScores
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a set of NAPFA station scores",
	Example: "  fitadmin grade --age 14 --gender m --sit-ups 40 --broad-jump 210 --sit-reach 38 " +
		"--pull-ups 8 --shuttle-run 10.4 --run 12.5",
	RunE: func(cmd *cobra.Command, args []string) error {
		test, err := napfa.Evaluate(gradeAge, models.Gender(gradeGender), gradeScores, time.Now())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATION\tSCORE\tGRADE")
		for _, station := range models.Stations {
			fmt.Fprintf(w, "%s\t%g\t%d\n", station, test.Scores.Get(station), test.Grades.Get(station))
		}
		fmt.Fprintf(w, "TOTAL\t\t%d\n", test.Total)
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Medal: %s\n", test.Medal)
		return nil
	},
}

func init() {
	flags := gradeCmd.Flags()
	flags.IntVar(&gradeAge, "age", 0, "Age of the student (12-20)")
	flags.StringVar(&gradeGender, "gender", "", "Gender: m or f")
	flags.Float64Var(&gradeScores.SitUps, "sit-ups", 0, "Sit-ups in one minute")
	flags.Float64Var(&gradeScores.BroadJump, "broad-jump", 0, "Standing broad jump in cm")
	flags.Float64Var(&gradeScores.SitReach, "sit-reach", 0, "Sit and reach in cm")
	flags.Float64Var(&gradeScores.PullUps, "pull-ups", 0, "Pull-ups in 30 seconds")
	flags.Float64Var(&gradeScores.ShuttleRun, "shuttle-run", 0, "Shuttle run in seconds")
	flags.Float64Var(&gradeScores.Run, "run", 0, "2.4 km run in minutes")
	_ = gradeCmd.MarkFlagRequired("age")
	_ = gradeCmd.MarkFlagRequired("gender")
	rootCmd.AddCommand(gradeCmd)
}
