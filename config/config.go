// Package config reads the settings of the benchmark harness from its
// makefile and shell scripts.
//
// The files are not parsed as shell or make syntax. Parse scans them for
// lines of the form key=value and only picks up the keys it is asked for.
// A key that never appears is an error.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MissingKeysError is returned when a file doesn't define all requested keys.
type MissingKeysError struct {
	File string
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.File, strings.Join(e.Keys, ", "))
}

// Values holds the requested keys found in one file.
type Values struct {
	File string
	m    map[string]string
}

// Parse scans r for key=value assignments of the given keys. Blank lines and
// lines starting with # are skipped, as are assignments of other keys. The
// first assignment of a key wins.
func Parse(r io.Reader, file string, keys ...string) (Values, error) {
	return parse(r, file, keys, nil)
}

// ParseFile is like Parse, but opens the named file.
func ParseFile(file string, keys ...string) (Values, error) {
	fd, err := os.Open(file)
	if err != nil {
		return Values{}, err
	}
	defer fd.Close()
	return Parse(fd, file, keys...)
}

// parse is Parse with a hook that sees every non-comment line first. Lines
// for which skip returns true are not checked for assignments.
func parse(r io.Reader, file string, keys []string, skip func(line string) bool) (Values, error) {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	v := Values{File: file, m: make(map[string]string, len(keys))}
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if skip != nil && skip(line) {
			continue
		}
		key, value, ok := splitAssignment(line)
		if !ok || !want[key] {
			log.WithFields(log.Fields{"file": file, "line": lineno}).Debugf("Ignoring %q", line)
			continue
		}
		if _, dup := v.m[key]; !dup {
			v.m[key] = value
		}
	}
	if err := sc.Err(); err != nil {
		return v, errors.Wrapf(err, "can't read %s", file)
	}

	var missing []string
	for _, k := range keys {
		if _, ok := v.m[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return v, &MissingKeysError{File: file, Keys: missing}
	}
	return v, nil
}

// splitAssignment splits "key=value", "key := value", "export key=value"
// and "local key=value". Quoted values lose their quotes; unquoted values
// end at a " #" comment.
func splitAssignment(line string) (key, value string, ok bool) {
	for _, prefix := range []string{"export ", "local ", "readonly "} {
		line = strings.TrimPrefix(line, prefix)
	}
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(strings.TrimRight(line[:eq], ":?+"))
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	value = strings.TrimSpace(line[eq+1:])
	switch {
	case strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'"):
		q := value[:1]
		if end := strings.Index(value[1:], q); end >= 0 {
			value = value[1 : end+1]
		} else {
			value = value[1:]
		}
	default:
		if i := strings.Index(value, " #"); i >= 0 {
			value = strings.TrimSpace(value[:i])
		}
	}
	return key, value, true
}

// Has reports whether key was found.
func (v Values) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// Get returns the raw value of key.
func (v Values) Get(key string) string {
	return v.m[key]
}

// Strings splits the value of key at white space.
func (v Values) Strings(key string) []string {
	return strings.Fields(v.m[key])
}

// Int parses the value of key as an integer.
func (v Values) Int(key string) (int, error) {
	n, err := strconv.Atoi(v.m[key])
	if err != nil {
		return 0, errors.Errorf("%s: %s=%q is not an integer", v.File, key, v.m[key])
	}
	return n, nil
}

// Ints parses the white space separated value of key as integers.
func (v Values) Ints(key string) ([]int, error) {
	fields := v.Strings(key)
	ints := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Errorf("%s: %s contains non-integer %q", v.File, key, f)
		}
		ints[i] = n
	}
	return ints, nil
}
