package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

func decodeInstant(t *testing.T, out string) usecase.InstantResult {
	t.Helper()
	var result usecase.InstantResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func TestNowCommand(t *testing.T) {
	services, _ := newTestServices(t)

	t.Run("configured zone", func(t *testing.T) {
		out, _, err := execute(t, services, "now")
		require.NoError(t, err)
		lines := strings.Split(out, "\n")
		assert.Equal(t, "Time: 1705320000.0 (2024-01-15 13:00:00 Europe/Rome)", lines[0])
		assert.Contains(t, out, "Weekday:")
		assert.Contains(t, out, "Monday")
	})

	t.Run("offset", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "--offset", "+05:30", "now")
		require.NoError(t, err)
		result := decodeInstant(t, out)
		assert.Equal(t, "2024-01-15T17:30:00+05:30", result.ISO)
		assert.Empty(t, result.Zone)
	})
}

func TestParseCommand(t *testing.T) {
	services, _ := newTestServices(t)

	t.Run("epoch seconds", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "parse", "1686484020")
		require.NoError(t, err)
		result := decodeInstant(t, out)
		assert.Equal(t, "2023-06-11T13:47:00+02:00", result.ISO)
		assert.Equal(t, "Europe/Rome", result.Zone)
		assert.True(t, result.DST)
		assert.True(t, result.Integer)
	})

	t.Run("canonical string", func(t *testing.T) {
		out, _, err := execute(t, services, "parse", "Time: 1698541200.0 (2023-10-29 02:00:00 Europe/Rome)")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Time: 1698541200.0 (2023-10-29 02:00:00 Europe/Rome)\n"))
		assert.Contains(t, out, "+01:00")
	})

	t.Run("ambiguous wall-clock time", func(t *testing.T) {
		_, stderr, err := execute(t, services, "parse", "2023-10-29 02:30:00")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAmbiguousTime))
		assert.Contains(t, stderr, "Error [AMBIGUOUS_TIME]")
		assert.True(t, IsReported(err))
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("ambiguous with guessing", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "--guess", "parse", "2023-10-29 02:30:00")
		require.NoError(t, err)
		result := decodeInstant(t, out)
		assert.Equal(t, "2023-10-29 02:30:00", result.Civil)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := execute(t, services, "parse")
		require.Error(t, err)
		assert.False(t, IsReported(err))
	})

	t.Run("json error", func(t *testing.T) {
		_, stderr, err := execute(t, services, "--format", "json", "parse", "not a time")
		require.Error(t, err)
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(stderr), &payload), stderr)
		assert.NotEmpty(t, payload.Error.Code)
	})
}

func TestConvertCommand(t *testing.T) {
	services, _ := newTestServices(t)

	tests := []struct {
		name string
		to   string
		want string
	}{
		{"zone", "America/New_York", "2023-06-11T07:47:00-04:00"},
		{"offset", "-0300", "2023-06-11T08:47:00-03:00"},
		{"utc", "UTC", "2023-06-11T11:47:00+00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, services, "--format", "json", "convert", "2023-06-11T13:47:00+02:00", tt.to)
			require.NoError(t, err)
			result := decodeInstant(t, out)
			assert.Equal(t, tt.want, result.ISO)
			assert.Equal(t, 1686484020.0, result.Epoch)
		})
	}

	t.Run("unknown zone", func(t *testing.T) {
		_, _, err := execute(t, services, "convert", "1686484020", "Mars/Olympus_Mons")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnknownZone))
	})
}

func TestShiftCommand(t *testing.T) {
	services, _ := newTestServices(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"calendar day over DST", []string{"shift", "2023-10-29 00:00:00", "1D"}, "2023-10-30T00:00:00+01:00"},
		{"physical hours", []string{"shift", "1698530400", "1h", "--times", "3"}, "2023-10-29T02:00:00+01:00"},
		{"backwards", []string{"shift", "1698541200", "1h", "--times=-1"}, "2023-10-29T02:00:00+02:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, services, append([]string{"--format", "json"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeInstant(t, out).ISO)
		})
	}

	t.Run("repeated calendar span", func(t *testing.T) {
		_, _, err := execute(t, services, "shift", "1698530400", "1D", "-n", "2")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedOperation))
	})
}

func TestRoundCommand(t *testing.T) {
	services, _ := newTestServices(t)

	t.Run("configured span and strategy", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "round", "1698578400")
		require.NoError(t, err)
		assert.Equal(t, "2023-10-29T12:00:00+01:00", decodeInstant(t, out).ISO)
	})

	t.Run("explicit span and strategy", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "round", "1698578400", "15m", "--how", "ceil")
		require.NoError(t, err)
		assert.Equal(t, "2023-10-29T12:30:00+01:00", decodeInstant(t, out).ISO)
	})

	t.Run("day floor on the DST day", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "round", "1698577200", "1D", "--how", "floor")
		require.NoError(t, err)
		assert.Equal(t, "2023-10-29T00:00:00+02:00", decodeInstant(t, out).ISO)
	})
}

func TestSpanCommand(t *testing.T) {
	services, _ := newTestServices(t)

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, services, "span", "1D")
		require.NoError(t, err)
		assert.Contains(t, out, "Span: 1D")
		assert.Contains(t, out, "calendar")
		assert.Contains(t, out, "n/a")
	})

	t.Run("physical", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "span", "90m")
		require.NoError(t, err)
		var result usecase.SpanResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.NotNil(t, result.Seconds)
		assert.Equal(t, 5400.0, *result.Seconds)
		assert.True(t, result.Physical)
	})

	t.Run("anchored calendar day", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "span", "1D", "--anchor", "2023-10-29 00:00:00")
		require.NoError(t, err)
		var result usecase.SpanResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.NotNil(t, result.Seconds)
		assert.Equal(t, 90000.0, *result.Seconds)
	})
}

func TestDayCommand(t *testing.T) {
	services, _ := newTestServices(t)

	out, _, err := execute(t, services, "day", "1698577200")
	require.NoError(t, err)
	assert.Contains(t, out, "Time: 1698530400.0 (2023-10-29 00:00:00 Europe/Rome DST)")
	assert.Contains(t, out, "Time: 1698620400.0 (2023-10-30 00:00:00 Europe/Rome)")
	assert.Contains(t, out, "90000 s")
}

func TestZoneCommand(t *testing.T) {
	services, _ := newTestServices(t)

	t.Run("configured", func(t *testing.T) {
		out, _, err := execute(t, services, "zone")
		require.NoError(t, err)
		assert.Contains(t, out, "Europe/Rome")
		assert.Contains(t, out, "config")
	})

	t.Run("named at an instant", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "zone", "America/New_York", "--at", "1704013200")
		require.NoError(t, err)
		var info repository.ZoneInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Equal(t, "-05:00", info.Offset)
		assert.False(t, info.IsDST)
	})

	t.Run("watch zones", func(t *testing.T) {
		out, _, err := execute(t, services, "--format", "json", "zone", "--watch")
		require.NoError(t, err)

		dec := json.NewDecoder(strings.NewReader(out))
		var names []string
		for dec.More() {
			var info repository.ZoneInfo
			require.NoError(t, dec.Decode(&info))
			names = append(names, info.Name)
		}
		assert.Equal(t, []string{"UTC", "Asia/Tokyo"}, names)
	})
}
