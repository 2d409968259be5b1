package main

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	"github.com/samuelfneumann/goptions/store"
	"github.com/spf13/cobra"
)

// edge is a region change observed during exploration
type edge struct {
	from, to region.ID
}

// ExploreCommand runs exploratory rollouts and prints how often each
// region was reached from each other region
func ExploreCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Discover region connectivity with random rollouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			g, err := cfg.Environment()
			if err != nil {
				return err
			}
			m, err := cfg.RegionMap()
			if err != nil {
				return err
			}
			m.SetLogger(nil)
			r, err := cfg.Runner(m)
			if err != nil {
				return err
			}

			var s *store.Store
			if cfg.Database != "" {
				if s, err = store.Open(cfg.Database); err != nil {
					return err
				}
				defer s.Close()
			}

			edges := make(map[edge]int)
			for ep := 0; ep < cfg.Episodes; ep++ {
				step, err := g.Reset()
				if err != nil {
					return err
				}
				pos := step.Position
				current, _ := m.Locate(pos)
				task := rollout.AcquireKey

				for done := false; !done; {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := r.Explore(g, pos, current, task)
					if err != nil {
						return err
					}
					if s != nil {
						if _, err := s.SaveExploration(ep, task, res); err != nil {
							return err
						}
					}
					if res.Next != res.Initial {
						edges[edge{res.Initial, res.Next}]++
					}

					if res.Next == task.Terminal() {
						task, _ = task.Next()
					}
					pos, done = res.Position, res.FinalDone
					current, _ = m.Locate(pos)
				}
			}

			printEdges(edges)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

func printEdges(edges map[edge]int) {
	keys := make([]edge, 0, len(edges))
	for e := range edges {
		keys = append(keys, e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from.Code() != keys[j].from.Code() {
			return keys[i].from.Code() < keys[j].from.Code()
		}
		return keys[i].to.Code() < keys[j].to.Code()
	})
	for _, e := range keys {
		fmt.Printf("%v -> %v: %d\n", e.from, e.to, edges[e])
	}
}
