package bench

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "make_csv.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetOrGenerate(t *testing.T) {
	script := writeScript(t, `echo "list,wrk_threads,tot_thruput" > "$1/$3.csv"
echo "$3-unsafe,$2,1" >> "$1/$3.csv"
`)
	gen := &Generator{Script: script, Stdout: io.Discard, Stderr: io.Discard}
	dir := t.TempDir()
	path, err := gen.GetOrGenerate(context.Background(), dir, "lazylist", 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "lazylist.csv"); path != want {
		t.Errorf("got path %s, want %s", path, want)
	}
	tab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := tab.First(Where(ColList, "lazylist-unsafe"), ColWorkers)
	if err != nil || !ok || v != 3 {
		t.Errorf("got (%v, %v, %v), want trial count 3 in generated file", v, ok, err)
	}
}

func TestGetOrGenerateExisting(t *testing.T) {
	// The script fails, so it must not run when the file is present.
	gen := &Generator{Script: writeScript(t, "exit 1\n"), Stdout: io.Discard, Stderr: io.Discard}
	dir := t.TempDir()
	want := filepath.Join(dir, "citrus.csv")
	if err := os.WriteFile(want, []byte("a\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path, err := gen.GetOrGenerate(context.Background(), dir, "citrus", 1)
	if err != nil {
		t.Fatal(err)
	}
	if path != want {
		t.Errorf("got path %s, want %s", path, want)
	}
}

func TestGetOrGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	missing := &Generator{Script: filepath.Join(dir, "nosuch.sh")}
	if _, err := missing.GetOrGenerate(context.Background(), dir, "ds", 1); err == nil {
		t.Error("expected error for missing script")
	}
	failing := &Generator{Script: writeScript(t, "exit 3\n"), Stdout: io.Discard, Stderr: io.Discard}
	if _, err := failing.GetOrGenerate(context.Background(), dir, "ds", 1); err == nil {
		t.Error("expected error for failing script")
	}
}

func TestConvertSummary(t *testing.T) {
	gen := &Generator{Script: writeScript(t, `cp "$1" "$2"`+"\n"), Stdout: io.Discard, Stderr: io.Discard}
	dir := t.TempDir()
	summary := "rqalg,nthreads,ixThroughput\nRQ_BUNDLE,1,100\n"
	if err := os.WriteFile(filepath.Join(dir, "summary.txt"), []byte(summary), 0644); err != nil {
		t.Fatal(err)
	}
	path, err := gen.ConvertSummary(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "data.csv"); path != want {
		t.Errorf("got path %s, want %s", path, want)
	}
	tab, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 1 {
		t.Errorf("got %d rows, want 1", tab.Len())
	}
}
