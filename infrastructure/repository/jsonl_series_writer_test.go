package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readJSONLines(t *testing.T, r io.Reader) []jsonlLine {
	t.Helper()
	var lines []jsonlLine
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var line jsonlLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestJSONLSeriesWriter_Write(t *testing.T) {
	tests := []struct {
		name      string
		compress  bool
		extension string
	}{
		{name: "plain", compress: false, extension: ".jsonl"},
		{name: "snappy", compress: true, extension: ".jsonl.sz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := newDSTSeries(t)
			writer := NewJSONLSeriesWriter(nopLogger{}, tt.compress)
			assert.Equal(t, "jsonl", writer.Format())
			require.Equal(t, tt.extension, writer.Extension())

			outputPath := filepath.Join(t.TempDir(), "series"+tt.extension)
			require.NoError(t, writer.Write(context.Background(), series, outputPath))

			file, err := os.Open(outputPath)
			require.NoError(t, err)
			defer func() {
				_ = file.Close()
			}()

			var r io.Reader = file
			if tt.compress {
				r = snappy.NewReader(file)
			}
			lines := readJSONLines(t, r)
			require.Len(t, lines, 27)

			head := lines[0]
			assert.Equal(t, "series", head.Kind)
			require.NotNil(t, head.Series)
			assert.Nil(t, head.Point)
			assert.Equal(t, series.ID(), head.Series.ID)
			assert.Equal(t, "rome dst", head.Series.Label)
			assert.Equal(t, "1h", head.Series.Span)
			assert.Equal(t, 26, head.Series.Points)
			assert.True(t, head.Series.Aligned)
			assert.Equal(t, series.Start().String(), head.Series.Start)

			for i, line := range lines[1:] {
				assert.Equal(t, "point", line.Kind)
				require.NotNil(t, line.Point)
				assert.Equal(t, i, line.Point.Index)
			}
			assert.Equal(t, "2023-10-30T00:00:00+01:00", lines[26].Point.ISO)
		})
	}
}

func TestJSONLSeriesWriter_RejectsPlainExtensionWhenCompressing(t *testing.T) {
	writer := NewJSONLSeriesWriter(nopLogger{}, true)
	err := writer.Write(context.Background(), newDSTSeries(t), filepath.Join(t.TempDir(), "series.jsonl"))
	assert.Error(t, err)
}
