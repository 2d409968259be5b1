// Command goptions trains and inspects region-scoped options in a
// key-door grid world
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/samuelfneumann/goptions/config"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("goptions: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := &cobra.Command{
		Use:           "goptions",
		Short:         "Learn region-scoped options in a key-door grid world",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(TrainCommand())
	root.AddCommand(ExploreCommand())
	root.AddCommand(InspectCommand())
	root.AddCommand(ConfigCommand())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "goptions: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by train and explore
type options struct {
	config   string
	episodes int
	seed     uint64
	db       string
}

func (o *options) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.config, "config", "",
		"JSON configuration file")
	cmd.PersistentFlags().IntVar(&o.episodes, "episodes", 0,
		"number of episodes (0 for config)")
	cmd.PersistentFlags().Uint64Var(&o.seed, "seed", 0, "seed (0 for config)")
	cmd.PersistentFlags().StringVar(&o.db, "db", "",
		"SQLite database to store rollouts in")
}

// load returns the configuration named by the flags, with flag values
// overriding the file
func (o *options) load() (config.Config, error) {
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return config.Config{}, err
		}
	}

	if o.episodes > 0 {
		cfg.Episodes = o.episodes
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.db != "" {
		cfg.Database = o.db
	}
	return cfg, cfg.Validate()
}

// ConfigCommand writes the default configuration
func ConfigCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the default configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Default().Write(out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "config.json", "output file")
	return cmd
}
