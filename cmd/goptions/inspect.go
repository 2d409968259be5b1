package main

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/goptions/encoder"
	"github.com/samuelfneumann/goptions/store"
	ts "github.com/samuelfneumann/goptions/timestep"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// InspectCommand prints the rollouts stored for an episode
func InspectCommand() *cobra.Command {
	var db string
	var episode int
	var transitions bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the rollouts stored for an episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				return errors.New("inspect: --db is required")
			}

			s, err := store.Open(db)
			if err != nil {
				return err
			}
			defer s.Close()

			counts, err := s.Count()
			if err != nil {
				return err
			}
			fmt.Printf("stored: %d option rollouts, %d explorations\n",
				counts[store.Option], counts[store.Explore])

			ids, err := s.Episode(episode)
			if err != nil {
				return err
			}
			for _, id := range ids {
				rec, err := s.Load(id)
				if err != nil {
					return err
				}
				fmt.Printf("%s %-7s %-10v option %2d %-15s %v -> %v "+
					"reward %5.2f steps %d\n", rec.ID[:8], rec.Kind, rec.Task,
					rec.Option, rec.Outcome, rec.Initial, rec.End,
					rec.TotalReward, rec.Steps)

				if !transitions {
					continue
				}
				for _, t := range rec.Transitions {
					printTransition("", t)
				}
				for _, t := range rec.Intended {
					printTransition("intended ", t)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "SQLite database of stored rollouts")
	cmd.Flags().IntVar(&episode, "episode", 0, "episode to print")
	cmd.Flags().BoolVar(&transitions, "transitions", false,
		"print every transition")
	return cmd
}

// printTransition prints t with the region-local cells its state
// vectors encode. Cell -1 is an unmapped position.
func printTransition(prefix string, t ts.Transition) {
	fmt.Printf("\t%s%v  |  Cell: %d -> %d\n", prefix, t, cell(t.State),
		cell(t.NextState))
}

func cell(v *mat.VecDense) int {
	if v == nil {
		return -1
	}
	return encoder.Decode(v)
}
