package main

import (
	"fmt"
	"log"
	"os"

	"github.com/samuelfneumann/goptions/experiment"
	"github.com/samuelfneumann/goptions/rollout"
	"github.com/samuelfneumann/goptions/store"
	"github.com/samuelfneumann/goptions/utils/progressbar"
	"github.com/spf13/cobra"
)

// TrainCommand trains options and the Q-table that chooses them
func TrainCommand() *cobra.Command {
	var opts options
	var returns, lengths string
	var colour bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train options and print the learned Q-table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if returns != "" {
				cfg.ReturnFile = returns
			}
			if lengths != "" {
				cfg.LengthFile = lengths
			}

			exp, err := cfg.Create()
			if err != nil {
				return err
			}
			if cfg.Database != "" {
				s, err := store.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer s.Close()
				exp.SetStore(s)
			}

			log.Printf("train: %d episodes (%d exploring) on a %dx%d grid, "+
				"seed %d", cfg.Episodes, cfg.ExploreEpisodes, cfg.Size,
				cfg.Size, cfg.Seed)

			var totalReturn float64
			var totalSteps, successes int
			bar := progressbar.New(os.Stdout, 40, cfg.Episodes)
			err = exp.RunFunc(cmd.Context(), func(s experiment.Summary) {
				totalReturn += s.Return
				totalSteps += s.Steps
				if s.Done && s.Task == rollout.ReachGoal {
					successes++
				}
				bar.Increment()
				bar.SetStatus("return %.2f steps %d", s.Return, s.Steps)
				bar.Display()
			})
			bar.Close()
			if err != nil {
				return err
			}

			if err := exp.Save(); err != nil {
				return err
			}

			n := float64(cfg.Episodes)
			fmt.Printf("summary: avg_return=%.2f avg_steps=%.2f "+
				"goal_rate=%.2f\n", totalReturn/n, float64(totalSteps)/n,
				float64(successes)/n)
			return exp.Table().Print(os.Stdout, colour)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&returns, "return", "",
		"file to save episodic returns to")
	cmd.Flags().StringVar(&lengths, "length", "",
		"file to save episode lengths to")
	cmd.Flags().BoolVar(&colour, "colour", true, "colour the printed Q-table")
	return cmd
}
