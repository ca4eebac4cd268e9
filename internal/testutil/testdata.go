package testutil

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/d21d3q/gocis/internal/options"
)

// Golden is the expected outcome of decoding one CIS image.
type Golden struct {
	ByteCount int64         `json:"byte_count"`
	Tuples    []GoldenTuple `json:"tuples"`
}

// GoldenTuple lists the rendered fields of a single record.
type GoldenTuple struct {
	Name   string   `json:"name"`
	Offset int64    `json:"offset"`
	Fields []string `json:"fields"`
}

// LoadJSON decodes a JSON fixture from the repository testdata directory.
func LoadJSON(t *testing.T, rel string, v any) {
	t.Helper()
	if err := json.Unmarshal(readTestdata(t, rel), v); err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
}

// LoadHex returns a hex dump fixture normalized to upper-case digits with
// separators and comments removed. Lines starting with '#' are comments.
func LoadHex(t *testing.T, rel string) string {
	t.Helper()
	return strings.ToUpper(hex.EncodeToString(LoadImage(t, rel)))
}

// LoadImage returns the bytes of a hex dump fixture.
func LoadImage(t *testing.T, rel string) []byte {
	t.Helper()
	var dump strings.Builder
	for _, line := range strings.Split(string(readTestdata(t, rel)), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		dump.WriteString(line)
		dump.WriteByte('\n')
	}
	data, err := options.ParseHex(dump.String())
	if err != nil {
		t.Fatalf("parse %s: %v", rel, err)
	}
	return data
}

// readTestdata resolves rel against the testdata directory next to go.mod,
// searching upwards from the package under test.
func readTestdata(t *testing.T, rel string) []byte {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			data, err := os.ReadFile(filepath.Join(dir, "testdata", rel))
			if err != nil {
				t.Fatalf("read testdata %s: %v", rel, err)
			}
			return data
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("no go.mod above the test directory, cannot locate %s", rel)
		}
		dir = parent
	}
}
