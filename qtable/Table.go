// Package qtable implements the high-level action-value table that
// scores options by task and region
package qtable

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/goptions/region"
	"github.com/samuelfneumann/goptions/rollout"
	"gonum.org/v1/gonum/floats"
)

// Table maps (task, region, option) triples to values. Missing entries
// have value zero.
type Table struct {
	numOptions int
	values     map[rollout.Task]map[region.ID][]float64
}

// New returns a new, empty Table over numOptions options
func New(numOptions int) (*Table, error) {
	if numOptions < 1 {
		return nil, fmt.Errorf("new: numOptions must be >= 1, have %d",
			numOptions)
	}
	return &Table{
		numOptions: numOptions,
		values:     make(map[rollout.Task]map[region.ID][]float64),
	}, nil
}

// NumOptions returns the number of options in the table
func (t *Table) NumOptions() int {
	return t.numOptions
}

// row returns the option values of task in region r, creating them
// if needed
func (t *Table) row(task rollout.Task, r region.ID) []float64 {
	regions, ok := t.values[task]
	if !ok {
		regions = make(map[region.ID][]float64)
		t.values[task] = regions
	}
	values, ok := regions[r]
	if !ok {
		values = make([]float64, t.numOptions)
		regions[r] = values
	}
	return values
}

func (t *Table) checkOption(option int) {
	if option < 0 || option >= t.numOptions {
		panic(fmt.Sprintf("qtable: option %d out of range [0, %d)", option,
			t.numOptions))
	}
}

// Get returns the value of option in region r for task
func (t *Table) Get(task rollout.Task, r region.ID, option int) float64 {
	t.checkOption(option)
	if values, ok := t.values[task][r]; ok {
		return values[option]
	}
	return 0
}

// Set sets the value of option in region r for task
func (t *Table) Set(task rollout.Task, r region.ID, option int, v float64) {
	t.checkOption(option)
	t.row(task, r)[option] = v
}

// Update moves the value of option in region r for task towards target
// with step size lr, returning the new value
func (t *Table) Update(task rollout.Task, r region.ID, option int, target,
	lr float64) float64 {
	t.checkOption(option)
	values := t.row(task, r)
	values[option] += lr * (target - values[option])
	return values[option]
}

// Best returns the option with the highest value in region r for task,
// and its value. Ties are broken by the lowest option index.
func (t *Table) Best(task rollout.Task, r region.ID) (int, float64) {
	values, ok := t.values[task][r]
	if !ok {
		return 0, 0
	}
	i := floats.MaxIdx(values)
	return i, values[i]
}

// Print writes the table to w, one block per task and one line per
// region. Tasks and regions are printed in ascending order of their
// codes. If colour is true, the best option of each region is
// highlighted.
func (t *Table) Print(w io.Writer, colour bool) error {
	au := aurora.NewAurora(colour)

	tasks := make([]rollout.Task, 0, len(t.values))
	for task := range t.values {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i] < tasks[j] })

	for _, task := range tasks {
		if _, err := fmt.Fprintf(w, "%v\n", au.Bold(fmt.Sprintf("Task %d:",
			int(task)))); err != nil {
			return fmt.Errorf("print: %v", err)
		}

		regions := make([]region.ID, 0, len(t.values[task]))
		for r := range t.values[task] {
			regions = append(regions, r)
		}
		sort.Slice(regions, func(i, j int) bool {
			return regions[i].Code() < regions[j].Code()
		})

		for _, r := range regions {
			values := t.values[task][r]
			best := floats.MaxIdx(values)

			options := make([]string, len(values))
			for o, v := range values {
				s := fmt.Sprintf("Option %d: %v", o, v)
				if o == best {
					options[o] = au.Green(s).String()
				} else {
					options[o] = s
				}
			}

			_, err := fmt.Fprintf(w, "  %v %d: %s\n", au.Cyan("Region"),
				r.Code(), strings.Join(options, ", "))
			if err != nil {
				return fmt.Errorf("print: %v", err)
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("print: %v", err)
		}
	}
	return nil
}
