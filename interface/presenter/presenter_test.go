package presenter

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

func sampleInstant() *usecase.InstantResult {
	return &usecase.InstantResult{
		Canonical:     "Time: 1698530400.0 (2023-10-29 00:00:00 Europe/Rome DST)",
		ISO:           "2023-10-29T00:00:00+02:00",
		Epoch:         1698530400,
		Hex:           "0x1.94f4e7c000000p+30",
		Zone:          "Europe/Rome",
		Offset:        "+02:00",
		OffsetSeconds: 7200,
		DST:           true,
		Civil:         "2023-10-29 00:00:00",
		Weekday:       6,
		Integer:       true,
	}
}

func TestNewPresenter(t *testing.T) {
	var out, errOut bytes.Buffer

	tests := []struct {
		format string
		want   interface{}
	}{
		{"text", &ConsolePresenterImpl{}},
		{"", &ConsolePresenterImpl{}},
		{"json", &JSONPresenterImpl{}},
		{"yaml", &YAMLPresenterImpl{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			p, err := NewPresenter(tt.format, &out, &errOut)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}

	_, err := NewPresenter("xml", &out, &errOut)
	assert.Error(t, err)
}

func TestConsolePresenter_PrintInstant(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenter(&out, &bytes.Buffer{})

	require.NoError(t, p.PrintInstant(sampleInstant()))

	text := out.String()
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("Time: 1698530400.0 (2023-10-29 00:00:00 Europe/Rome DST)\n")))
	assert.Contains(t, text, "2023-10-29T00:00:00+02:00")
	assert.Contains(t, text, "Europe/Rome")
	assert.Contains(t, text, "Sunday")
	assert.Contains(t, text, "1698530400\n")
}

func TestConsolePresenter_PrintSpan(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenter(&out, &bytes.Buffer{})
	seconds := 90000.0

	require.NoError(t, p.PrintSpan(&usecase.SpanResult{
		Span:       "1D",
		Components: map[string]any{"days": 1, "hours": 0, "seconds": 0.0},
		Calendar:   true,
		Seconds:    &seconds,
		Anchor:     "Time: 1698530400.0 (2023-10-29 00:00:00 Europe/Rome DST)",
		End:        "Time: 1698620400.0 (2023-10-30 00:00:00 Europe/Rome)",
	}))

	text := out.String()
	assert.Contains(t, text, "Span: 1D")
	assert.Contains(t, text, "calendar")
	assert.Contains(t, text, "Days:")
	assert.NotContains(t, text, "Hours:")
	assert.Contains(t, text, "90000")
}

func TestConsolePresenter_PrintDay(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenter(&out, &bytes.Buffer{})

	end := &usecase.InstantResult{Canonical: "Time: 1698620400.0 (2023-10-30 00:00:00 Europe/Rome)"}
	require.NoError(t, p.PrintDay(&usecase.DayResult{Start: sampleInstant(), End: end, Seconds: 90000}))

	assert.Contains(t, out.String(), "Start:   Time: 1698530400.0 (2023-10-29 00:00:00 Europe/Rome DST)")
	assert.Contains(t, out.String(), "End:     Time: 1698620400.0")
	assert.Contains(t, out.String(), "Length:  90000 s")
}

func TestConsolePresenter_PrintSeriesList(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenter(&out, &bytes.Buffer{})

	require.NoError(t, p.PrintSeriesList(nil))
	assert.Equal(t, "No stored series\n", out.String())

	out.Reset()
	require.NoError(t, p.PrintSeriesList([]repository.SeriesSummary{{
		ID:        "0b5c7e7a-3b7b-4d0e-9d59-0f4a7f3f6f10",
		Label:     "a label that is certainly longer than thirty characters",
		Span:      "1h",
		Points:    1234,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}))
	text := out.String()
	assert.Contains(t, text, "0b5c7e7a-3b7b-4d0e-9d59-0f4a7f3f6f10")
	assert.Contains(t, text, "1,234")
	assert.Contains(t, text, "...")
	assert.Contains(t, text, "2024-01-01T00:00:00Z")
}

func TestConsolePresenter_PrintConfig(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePresenter(&out, &bytes.Buffer{})

	require.NoError(t, p.PrintConfig(map[string]interface{}{
		"version": 1,
		"zone":    map[string]interface{}{"default_zone": "UTC"},
	}))
	assert.Equal(t, "version = 1\nzone.default_zone = UTC\n", out.String())
}

func TestPresenter_PrintError(t *testing.T) {
	domainErr := domain.ErrUnknownZone("Mars/Olympus_Mons", errors.New("unknown time zone"))

	t.Run("text", func(t *testing.T) {
		var out, errOut bytes.Buffer
		require.NoError(t, NewConsolePresenter(&out, &errOut).PrintError(domainErr))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "Error [UNKNOWN_ZONE]")
	})

	t.Run("plain error", func(t *testing.T) {
		var errOut bytes.Buffer
		require.NoError(t, NewConsolePresenter(&bytes.Buffer{}, &errOut).PrintError(errors.New("boom")))
		assert.Equal(t, "Error: boom\n", errOut.String())
	})

	t.Run("json", func(t *testing.T) {
		var errOut bytes.Buffer
		require.NoError(t, NewJSONPresenter(&bytes.Buffer{}, &errOut).PrintError(domainErr))

		var decoded map[string]map[string]string
		require.NoError(t, json.Unmarshal(errOut.Bytes(), &decoded))
		assert.Equal(t, "UNKNOWN_ZONE", decoded["error"]["code"])
		assert.NotEmpty(t, decoded["error"]["message"])
	})

	t.Run("yaml", func(t *testing.T) {
		var errOut bytes.Buffer
		require.NoError(t, NewYAMLPresenter(&bytes.Buffer{}, &errOut).PrintError(domainErr))

		var decoded map[string]map[string]string
		require.NoError(t, yaml.Unmarshal(errOut.Bytes(), &decoded))
		assert.Equal(t, "UNKNOWN_ZONE", decoded["error"]["code"])
	})
}

func TestJSONPresenter_PrintInstant(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewJSONPresenter(&out, &bytes.Buffer{}).PrintInstant(sampleInstant()))

	var decoded usecase.InstantResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, *sampleInstant(), decoded)
	assert.Contains(t, out.String(), `"offset_seconds": 7200`)
}

func TestJSONPresenter_PrintSeriesList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewJSONPresenter(&out, &bytes.Buffer{}).PrintSeriesList(nil))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []interface{}{}, decoded["series"])
	assert.Equal(t, float64(0), decoded["totalCount"])
}

func TestYAMLPresenter_PrintInstant(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewYAMLPresenter(&out, &bytes.Buffer{}).PrintInstant(sampleInstant()))

	var decoded usecase.InstantResult
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, *sampleInstant(), decoded)
	assert.Contains(t, out.String(), "zone: Europe/Rome\n")
}

func TestYAMLPresenter_PrintZoneInfo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewYAMLPresenter(&out, &bytes.Buffer{}).PrintZoneInfo(repository.ZoneInfo{
		Name:            "Asia/Tokyo",
		Offset:          "+09:00",
		OffsetSeconds:   32400,
		DetectionMethod: "config",
	}))

	assert.Contains(t, out.String(), "name: Asia/Tokyo\n")
	assert.Contains(t, out.String(), "detection_method: config\n")

	var decoded repository.ZoneInfo
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "+09:00", decoded.Offset)
	assert.Equal(t, 32400, decoded.OffsetSeconds)
}
