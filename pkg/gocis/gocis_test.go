package gocis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/d21d3q/gocis/internal/tuple"
)

func TestAnalyzeHexText(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "01 03 D9 01 FF FF", AnalyzeOptions{})
	require.NoError(t, err)
	require.Equal(t, "0103D901FFFF", result.RawHex)
	require.EqualValues(t, 6, result.ByteCount)
	require.Len(t, result.Records, 2)

	want := strings.Join([]string{
		"Tuple CISTPL_DEVICE (01), len 03",
		"d9 01 ff",
		"  Device type: FUNCSPEC (0xd)",
		"  WP: yes",
		"  Speed: 250ns (0x1)",
		"  Units: 1",
		"  Unit size: 2048",
		"  Size: 1 units of 2048 bytes",
		"Tuple CISTPL_END (ff)",
		"",
	}, "\n")
	require.Equal(t, want, result.String())
}

func TestAnalyzeHexDumpWraps(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "7E 0A 00 01 02 03 04 05 06 07 08 09", AnalyzeOptions{})
	require.NoError(t, err)
	require.Equal(t, "Tuple (unknown) (7e), len 0a\n00 01 02 03 04 05 06 07\n08 09\n", result.String())

	data, err := json.Marshal(result.Records[0])
	require.NoError(t, err)
	require.Contains(t, string(data), `"unknown":true`)
}

func TestAnalyzeHexRejectsBadInput(t *testing.T) {
	_, err := AnalyzeHex(context.Background(), "0G", AnalyzeOptions{})
	require.Error(t, err)
}

func TestAnalyzeEmptyStream(t *testing.T) {
	result, err := Analyze(context.Background(), bytes.NewReader(nil), AnalyzeOptions{})
	require.NoError(t, err)
	require.Empty(t, result.Records)
	require.Zero(t, result.ByteCount)
}

func TestAnalyzeStopsAtEnd(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "00 FF 21 02 04 01", AnalyzeOptions{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.Equal(t, "CISTPL_NULL", result.Records[0].Name)
	require.True(t, result.Records[1].Last)
	require.EqualValues(t, 2, result.ByteCount)
}

func TestAnalyzeOversizedTuple(t *testing.T) {
	raw := "21 02 04 01 15 40" + strings.Repeat(" 00", 0x40) + " FF"
	result, err := AnalyzeHex(context.Background(), raw, AnalyzeOptions{})
	require.ErrorIs(t, err, tuple.ErrOversizedTuple)
	require.Len(t, result.Records, 1)
	require.EqualValues(t, 4, result.ByteCount)

	var de *tuple.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, tuple.CodeVers1, de.Code)
	require.EqualValues(t, 4, de.Offset)

	result, err = AnalyzeHex(context.Background(), raw, AnalyzeOptions{Window: tuple.MaxWindow})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
}

func TestAnalyzeKeepsPartialRecord(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "01 03 D9 01 FF 21 01 04 FF", AnalyzeOptions{})
	require.ErrorIs(t, err, tuple.ErrTruncatedField)
	require.Len(t, result.Records, 2)

	partial := result.Records[1]
	require.Equal(t, tuple.CodeFuncID, partial.Code)
	require.Len(t, partial.Fields, 1)
	require.Equal(t, "Function: FIXED (0x4)", partial.Fields[0].String())

	var de *tuple.DecodeError
	require.True(t, errors.As(err, &de))
	require.True(t, de.HasCode)
	require.EqualValues(t, 5, de.Offset)
	require.Contains(t, err.Error(), "CISTPL_FUNCID")
}

func TestAnalyzeTruncatedStream(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "20 04 07 00", AnalyzeOptions{})
	require.ErrorIs(t, err, tuple.ErrTruncatedStream)
	require.Empty(t, result.Records)
}

func TestAnalyzeContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := AnalyzeHex(ctx, "00 00 FF", AnalyzeOptions{})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, result.Records)
}

func TestAnalyzeLogsTuples(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	_, err := AnalyzeHex(context.Background(), "21 02 04 01 FF", AnalyzeOptions{Logger: logrus.NewEntry(logger)})
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 2)
	entry := hook.AllEntries()[0]
	require.Equal(t, "framed tuple", entry.Message)
	require.Equal(t, "CISTPL_FUNCID", entry.Data["name"])
	require.Equal(t, "0x21", entry.Data["code"])
}

func TestReaderNext(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{0x20, 0x04, 0x34, 0x12, 0x78, 0x56, 0xFF, 0x00}), AnalyzeOptions{})
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "CISTPL_MANFID", rec.Name)

	fs := rec.FieldSet()
	manf, err := fs.Int("Manufacturer")
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, manf)
	card, err := fs.String("Card")
	require.NoError(t, err)
	require.Equal(t, "0x5678", card)

	rec, err = r.Next()
	require.NoError(t, err)
	require.True(t, rec.Last)
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
	require.EqualValues(t, 7, r.Offset())
}

func TestNewReaderRejectsWindow(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), AnalyzeOptions{Window: 1})
	require.Error(t, err)
	_, err = NewReader(bytes.NewReader(nil), AnalyzeOptions{Window: tuple.MaxWindow + 1})
	require.Error(t, err)
}

func TestFieldSet(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "15 0C 04 01 41 43 4D 45 00 43 46 00 00 FF 21 02 04 03 FF", AnalyzeOptions{})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	vers := result.Records[0].FieldSet()
	require.Equal(t, []string{"ACME", "CF", ""}, vers.Strings("Info"))
	major, err := vers.Int("Major")
	require.NoError(t, err)
	require.EqualValues(t, 4, major)
	_, err = vers.Int("Info")
	require.Error(t, err)
	_, err = vers.Bool("Major")
	require.Error(t, err)
	_, err = vers.String("Nope")
	require.Error(t, err)

	fn := result.Records[1].FieldSet()
	name, err := fn.String("Function")
	require.NoError(t, err)
	require.Equal(t, "FIXED", name)
	post, err := fn.Bool("POST")
	require.NoError(t, err)
	require.True(t, post)
	rom, err := fn.Bool("ROM")
	require.NoError(t, err)
	require.True(t, rom)
	_, ok := fn.Raw("Missing")
	require.False(t, ok)
	require.Len(t, fn.Fields(), 3)
}

func TestResultJSON(t *testing.T) {
	result, err := AnalyzeHex(context.Background(), "00 1B 04 01 01 01 55 FF", AnalyzeOptions{})
	require.NoError(t, err)
	data, err := result.JSON()
	require.NoError(t, err)

	var doc struct {
		RawHex    string `json:"raw_hex"`
		ByteCount int64  `json:"byte_count"`
		Tuples    []struct {
			Code    string           `json:"code"`
			Name    string           `json:"name"`
			Offset  int64            `json:"offset"`
			Length  int              `json:"length"`
			Payload string           `json:"payload"`
			Fields  []map[string]any `json:"fields"`
			Last    bool             `json:"last"`
		} `json:"tuples"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "001B0401010155FF", doc.RawHex)
	require.EqualValues(t, 8, doc.ByteCount)
	require.Len(t, doc.Tuples, 3)

	entry := doc.Tuples[1]
	require.Equal(t, "0x1b", entry.Code)
	require.Equal(t, "CISTPL_CFTABLE_ENTRY", entry.Name)
	require.EqualValues(t, 1, entry.Offset)
	require.Equal(t, 4, entry.Length)
	require.Equal(t, "01010155", entry.Payload)
	last := entry.Fields[len(entry.Fields)-1]
	require.Equal(t, "decimal", last["kind"])
	require.Equal(t, "NomV", last["label"])
	require.Equal(t, "5", last["value"])
	require.Equal(t, "V", last["unit"])
	require.True(t, doc.Tuples[2].Last)
	require.NotContains(t, string(data), `"unknown"`)

	empty, err := Result{}.JSON()
	require.NoError(t, err)
	require.Contains(t, string(empty), `"tuples": []`)
}
