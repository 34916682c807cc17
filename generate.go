package bench

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristanetworks/goarista/monotime"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Generator runs the harness script that turns raw benchmark output into
// a CSV file.
type Generator struct {
	Script string    // path of make_csv.sh
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

// GetOrGenerate returns the path of dir/dataset.csv, running
// "Script dir trials dataset" first if the file doesn't exist.
func (g *Generator) GetOrGenerate(ctx context.Context, dir, dataset string, trials int) (string, error) {
	path := filepath.Join(dir, dataset+".csv")
	if fileExist(path) {
		log.WithField("path", path).Debug("Using existing CSV file")
		return path, nil
	}
	log.WithFields(log.Fields{"dataset": dataset, "dir": dir}).Info("No CSV file found, generating it now")
	if err := g.run(ctx, dir, strconv.Itoa(trials), dataset); err != nil {
		return "", err
	}
	return path, nil
}

// ConvertSummary returns the path of dir/data.csv, running
// "Script dir/summary.txt dir/data.csv" first if the file doesn't exist.
func (g *Generator) ConvertSummary(ctx context.Context, dir string) (string, error) {
	path := filepath.Join(dir, "data.csv")
	if fileExist(path) {
		log.WithField("path", path).Debug("Using existing CSV file")
		return path, nil
	}
	log.WithField("dir", dir).Info("No data.csv found, converting summary.txt")
	if err := g.run(ctx, filepath.Join(dir, "summary.txt"), path); err != nil {
		return "", err
	}
	return path, nil
}

func (g *Generator) run(ctx context.Context, args ...string) error {
	if !fileExist(g.Script) {
		return errors.Errorf("generator script %s not found", g.Script)
	}
	cmd := exec.CommandContext(ctx, g.Script, args...)
	cmd.Stdout, cmd.Stderr = g.Stdout, g.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	start := monotime.Now()
	err := cmd.Run()
	took := time.Duration(monotime.Now() - start)
	if err != nil {
		return errors.Wrapf(err, "%s failed", g.Script)
	}
	log.WithFields(log.Fields{"script": g.Script, "took": took}).Info("Generated CSV data")
	return nil
}

func fileExist(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
