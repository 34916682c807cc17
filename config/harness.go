package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Threads is the thread sweep configured in config.mk.
type Threads struct {
	Max       int
	Increment int
}

// ReadThreads reads maxthreads and threadincrement from config.mk.
func ReadThreads(file string) (Threads, error) {
	v, err := ParseFile(file, "maxthreads", "threadincrement")
	if err != nil {
		return Threads{}, err
	}
	var c Threads
	if c.Max, err = v.Int("maxthreads"); err != nil {
		return Threads{}, err
	}
	if c.Increment, err = v.Int("threadincrement"); err != nil {
		return Threads{}, err
	}
	if c.Max < 1 || c.Increment < 1 {
		return Threads{}, errors.Errorf("%s: invalid thread sweep max=%d increment=%d", file, c.Max, c.Increment)
	}
	return c, nil
}

// Counts returns the thread counts the harness runs: one thread, every
// multiple of the increment below the maximum, and the maximum.
func (c Threads) Counts() []int {
	counts := []int{1}
	for n := c.Increment; n < c.Max; n += c.Increment {
		if n > counts[len(counts)-1] {
			counts = append(counts, n)
		}
	}
	if c.Max > counts[len(counts)-1] {
		counts = append(counts, c.Max)
	}
	return counts
}

// Experiments is the microbenchmark setup from experiment_list_generate.sh.
type Experiments struct {
	Enabled        []string // experiment functions called by the script
	DataStructures []string
	KeySizes       []int
}

// IsEnabled reports whether the named experiment is run.
func (e Experiments) IsEnabled(name string) bool {
	for _, n := range e.Enabled {
		if n == name {
			return true
		}
	}
	return false
}

// experimentMarker tags the lines of experiment_list_generate.sh that call
// an experiment function.
const experimentMarker = "#<"

// ReadExperimentList reads the datastructures and ksizes variables from
// experiment_list_generate.sh. Each of the given experiment function names
// is enabled if it appears on a line carrying the #< marker.
func ReadExperimentList(file string, experiments ...string) (Experiments, error) {
	fd, err := os.Open(file)
	if err != nil {
		return Experiments{}, err
	}
	defer fd.Close()
	return parseExperimentList(fd, file, experiments)
}

func parseExperimentList(r io.Reader, file string, experiments []string) (Experiments, error) {
	var e Experiments
	skip := func(line string) bool {
		if !strings.Contains(line, experimentMarker) {
			return false
		}
		for _, name := range experiments {
			if strings.Contains(line, name) {
				if !e.IsEnabled(name) {
					e.Enabled = append(e.Enabled, name)
				}
				return true
			}
		}
		return false
	}
	v, err := parse(r, file, []string{"datastructures", "ksizes"}, skip)
	if err != nil {
		return Experiments{}, err
	}
	e.DataStructures = v.Strings("datastructures")
	if e.KeySizes, err = v.Ints("ksizes"); err != nil {
		return Experiments{}, err
	}
	return e, nil
}

// ReadTrials reads the number of trials from runscript.sh.
func ReadTrials(file string) (int, error) {
	v, err := ParseFile(file, "trials")
	if err != nil {
		return 0, err
	}
	n, err := v.Int("trials")
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.Errorf("%s: invalid trial count %d", file, n)
	}
	return n, nil
}
