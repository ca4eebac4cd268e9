package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/d21d3q/gocis/internal/tuple"
)

func execute(t *testing.T, stdin []byte, args ...string) (string, *logrus.Logger, error) {
	t.Helper()
	log, _ := test.NewNullLogger()
	cmd := newRootCmd(log)
	var out bytes.Buffer
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), log, err
}

func TestRawStdin(t *testing.T) {
	out, _, err := execute(t, []byte{0x21, 0x02, 0x04, 0x01, 0xFF})
	require.NoError(t, err)
	require.Equal(t, "Tuple CISTPL_FUNCID (21), len 02\n04 01\n  Function: FIXED (0x4)\n  POST: yes\nTuple CISTPL_END (ff)\n", out)
}

func TestHexFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.hex")
	require.NoError(t, os.WriteFile(path, []byte("20 04 07 00 00 00\nFF\n"), 0o600))
	out, _, err := execute(t, nil, "--hex", "--format", "json", path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.EqualValues(t, 7, doc["byte_count"])
	require.Equal(t, "200407000000FF", doc["raw_hex"])
	require.Len(t, doc["tuples"], 2)
}

func TestMissingFile(t *testing.T) {
	_, _, err := execute(t, nil, filepath.Join(t.TempDir(), "absent.bin"))
	require.Error(t, err)
}

func TestFaultPrintsPartialResult(t *testing.T) {
	raw := append([]byte{0x21, 0x02, 0x04, 0x01, 0x15, 0x40}, make([]byte, 0x30)...)
	out, _, err := execute(t, raw)
	require.ErrorIs(t, err, tuple.ErrOversizedTuple)
	require.Contains(t, err.Error(), "after 1 tuples")
	require.True(t, strings.HasPrefix(out, "Tuple CISTPL_FUNCID (21)"))

	out, _, err = execute(t, raw, "--window", "257")
	require.ErrorIs(t, err, tuple.ErrTruncatedStream)
	require.Contains(t, out, "Tuple CISTPL_FUNCID")
}

func TestConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hex: true\nformat: json\nlog_level: debug\n"), 0o600))

	out, log, err := execute(t, []byte("FF"), "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, `"byte_count": 1`)
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	out, _, err = execute(t, []byte("FF"), "--config", path, "--format", "text")
	require.NoError(t, err)
	require.Equal(t, "Tuple CISTPL_END (ff)\n", out)
}

func TestInvalidSettings(t *testing.T) {
	_, _, err := execute(t, nil, "--window", "1")
	require.Error(t, err)
	_, _, err = execute(t, nil, "--format", "xml")
	require.Error(t, err)
	_, _, err = execute(t, nil, "--log-level", "loud")
	require.Error(t, err)
	_, _, err = execute(t, nil, "a", "b")
	require.Error(t, err)
}

func TestFaultEntry(t *testing.T) {
	log, _ := test.NewNullLogger()
	err := fmt.Errorf("decode failed: %w", &tuple.DecodeError{Code: tuple.CodeVers1, HasCode: true, Offset: 4, Err: tuple.ErrOversizedTuple})
	entry := faultEntry(log, err)
	require.EqualValues(t, 4, entry.Data["offset"])
	require.Equal(t, "CISTPL_VERS_1", entry.Data["tuple"])

	entry = faultEntry(log, &tuple.DecodeError{Offset: 0, Err: tuple.ErrTruncatedStream})
	require.NotContains(t, entry.Data, "tuple")
	require.Empty(t, faultEntry(log, os.ErrNotExist).Data)
}
