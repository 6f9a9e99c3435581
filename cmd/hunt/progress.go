package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/stagehunt/internal/app"
	"github.com/vancomm/stagehunt/internal/content"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or clear the player's progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the stages and whether they are open or solved",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New(log, cfg)
		if err := a.Open(); err != nil {
			return err
		}
		defer a.Close()

		h, err := content.LoadHunt()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, h.Title)
		for _, s := range h.Stages {
			state := "locked"
			if done, err := a.Tracker().IsStageCompleted(s.ID); err != nil {
				return err
			} else if done {
				state = "solved"
			} else if open, err := a.Tracker().IsStageAvailable(s.ID); err != nil {
				return err
			} else if open {
				state = "open"
			}
			fmt.Fprintf(out, "%d. %-24s %-12s %s\n", s.ID, s.Title, s.Game, state)
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every solved stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New(log, cfg)
		if err := a.Open(); err != nil {
			return err
		}
		defer a.Close()

		if err := a.Tracker().Reset(); err != nil {
			return err
		}
		log.Info("progress reset")
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressShowCmd, progressResetCmd)
}
