package gocis

import (
	"bytes"
	"context"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/d21d3q/gocis/internal/testutil"
)

func TestGoldenImages(t *testing.T) {
	fixtures := []string{"sandisk_cf"}
	for _, name := range fixtures {
		t.Run(name, func(t *testing.T) {
			var expected testutil.Golden
			testutil.LoadJSON(t, "cis/"+name+".json", &expected)

			result, err := AnalyzeHex(context.Background(), testutil.LoadHex(t, "cis/"+name+".hex"), AnalyzeOptions{})
			require.NoError(t, err)
			requireGolden(t, expected, result)

			// A reader that trickles bytes must frame the same records.
			image := testutil.LoadImage(t, "cis/"+name+".hex")
			result, err = Analyze(context.Background(), iotest.OneByteReader(bytes.NewReader(image)), AnalyzeOptions{})
			require.NoError(t, err)
			requireGolden(t, expected, result)
		})
	}
}

func requireGolden(t *testing.T, expected testutil.Golden, result Result) {
	t.Helper()
	require.Equal(t, expected.ByteCount, result.ByteCount)
	require.Len(t, result.Records, len(expected.Tuples))
	for i, want := range expected.Tuples {
		rec := result.Records[i]
		require.Equal(t, want.Name, rec.Name, "record %d", i)
		require.Equal(t, want.Offset, rec.Offset, "record %d", i)
		got := make([]string, len(rec.Fields))
		for j, f := range rec.Fields {
			got[j] = f.String()
		}
		require.Equal(t, want.Fields, got, "record %d (%s)", i, rec.Name)
	}
}
