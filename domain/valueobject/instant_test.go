package valueobject

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/propertime/domain"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (r *recordingLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (r *recordingLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	r.warnings = append(r.warnings, msg)
}
func (r *recordingLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (r *recordingLogger) WithFields(fields ...domain.Field) domain.Logger            { return r }

func mustDate(t *testing.T, year, month, day, hour, minute int, second float64, opts ...Option) Instant {
	t.Helper()
	inst, err := Date(year, month, day, hour, minute, second, opts...)
	require.NoError(t, err)
	return inst
}

func mustEpoch(t *testing.T, seconds float64, opts ...Option) Instant {
	t.Helper()
	inst, err := FromEpoch(seconds, opts...)
	require.NoError(t, err)
	return inst
}

func TestFromEpoch(t *testing.T) {
	t.Run("defaults to UTC", func(t *testing.T) {
		inst := mustEpoch(t, 1702928535)
		assert.Equal(t, float64(1702928535), inst.Seconds())
		assert.Equal(t, "UTC", inst.Zone().Name())
		assert.Equal(t, float64(0), inst.Offset())
	})

	t.Run("consistent offset is accepted", func(t *testing.T) {
		inst := mustEpoch(t, 1702928535, WithOffset(0))
		assert.Equal(t, UTC, inst.Zone())
	})

	t.Run("inconsistent offset is rejected", func(t *testing.T) {
		_, err := FromEpoch(1702928535, WithOffset(3500))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInconsistentOffset))
	})

	t.Run("offset without zone", func(t *testing.T) {
		inst := mustEpoch(t, 1702928535, WithoutZone(), WithOffset(-68400))
		assert.Nil(t, inst.Zone())
		assert.Equal(t, "Time: 1702928535.0 (2023-12-18 00:42:15 -19:00)", inst.String())
	})

	t.Run("no zone and no offset", func(t *testing.T) {
		_, err := FromEpoch(0, WithoutZone())
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("unknown zone name", func(t *testing.T) {
		_, err := FromEpoch(0, WithZoneName("Mars/Olympus"))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnknownZone))
	})
}

func TestNow(t *testing.T) {
	clock := FakeClock{T: time.Date(2023, 12, 1, 0, 0, 0, 890_000_000, time.UTC)}

	inst, err := Now(WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, 1701388800.89, inst.Seconds())
	assert.Equal(t, UTC, inst.Zone())

	rome, err := Now(WithClock(clock), WithZoneName("Europe/Rome"))
	require.NoError(t, err)
	assert.Equal(t, float64(3600), rome.Offset())
}

func TestFromCivil(t *testing.T) {
	t.Run("UTC", func(t *testing.T) {
		inst := mustDate(t, 2023, 12, 1, 0, 0, 0)
		assert.Equal(t, float64(1701388800), inst.Seconds())
	})

	t.Run("fractional seconds", func(t *testing.T) {
		inst := mustDate(t, 2023, 12, 1, 0, 0, 0.89)
		assert.Equal(t, 1701388800.89, inst.Seconds())
	})

	t.Run("on a zone", func(t *testing.T) {
		inst := mustDate(t, 2023, 12, 1, 0, 0, 0, WithZoneName("Europe/Rome"))
		assert.Equal(t, float64(1701385200), inst.Seconds())
		assert.Equal(t, float64(3600), inst.Offset())
	})

	t.Run("component count", func(t *testing.T) {
		tests := []struct {
			name       string
			components []float64
			reason     string
		}{
			{"incomplete", []float64{2023, 12, 1}, "incomplete components"},
			{"microseconds", []float64{2023, 12, 1, 0, 0, 0, 5}, "fractional second"},
			{"too many", []float64{2023, 12, 1, 0, 0, 0, 5, 6}, "too many components"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := FromCivil(tt.components)
				require.Error(t, err)
				assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
				assert.Contains(t, err.Error(), tt.reason)
			})
		}
	})

	t.Run("fractional month", func(t *testing.T) {
		_, err := FromCivil([]float64{2023, 1.5, 1, 0, 0, 0})
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("invalid day", func(t *testing.T) {
		_, err := Date(2023, 2, 30, 0, 0, 0)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("non-existent time", func(t *testing.T) {
		_, err := Date(2023, 3, 26, 2, 15, 0, WithZoneName("Europe/Rome"))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNonExistentTime))

		_, err = Date(2023, 3, 26, 2, 15, 0, WithZoneName("Europe/Rome"), WithGuessing())
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNonExistentTime))
	})

	t.Run("ambiguous time", func(t *testing.T) {
		_, err := Date(2023, 10, 29, 2, 15, 0, WithZoneName("Europe/Rome"))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAmbiguousTime))
	})

	t.Run("ambiguous time with guessing", func(t *testing.T) {
		logger := &recordingLogger{}
		inst, err := Date(2023, 10, 29, 2, 15, 0, WithZoneName("Europe/Rome"), WithGuessing(), WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, "Time: 1698542100.0 (2023-10-29 02:15:00 Europe/Rome)", inst.String())
		assert.Equal(t, "2023-10-29T02:15:00+01:00", inst.ISO())
		require.Len(t, logger.warnings, 1)
		assert.Equal(t, "Time 2023-10-29 02:15:00 is ambiguous on time zone Europe/Rome, assuming +01:00 UTC offset", logger.warnings[0])
	})

	t.Run("ambiguous time resolved by offset", func(t *testing.T) {
		dst := mustDate(t, 2023, 10, 29, 2, 15, 0, WithZoneName("Europe/Rome"), WithOffset(7200))
		assert.Equal(t, "Time: 1698538500.0 (2023-10-29 02:15:00 Europe/Rome DST)", dst.String())

		std := mustDate(t, 2023, 10, 29, 2, 15, 0, WithZoneName("Europe/Rome"), WithOffset(3600))
		assert.Equal(t, "Time: 1698542100.0 (2023-10-29 02:15:00 Europe/Rome)", std.String())

		ny := mustDate(t, 2023, 11, 5, 1, 15, 0, WithZoneName("America/New_York"), WithOffset(-14400))
		assert.Equal(t, "Time: 1699161300.0 (2023-11-05 01:15:00 America/New_York DST)", ny.String())
		assert.Equal(t, "2023-11-05T01:15:00-04:00", ny.ISO())
	})

	t.Run("inconsistent offset", func(t *testing.T) {
		for _, offset := range []float64{3600, 10800} {
			_, err := Date(2023, 6, 11, 17, 56, 0, WithZoneName("Europe/Rome"), WithOffset(offset))
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInconsistentOffset))
		}
	})

	t.Run("fixed offset", func(t *testing.T) {
		inst := mustDate(t, 2023, 6, 11, 17, 56, 0, WithoutZone(), WithOffset(3600))
		assert.Equal(t, float64(1686502560), inst.Seconds())
		assert.Nil(t, inst.Zone())
	})
}

func TestFromCivilTime(t *testing.T) {
	c := CivilTime{Year: 2023, Month: 12, Day: 3, Hour: 16, Minute: 12}

	_, err := FromCivilTime(c)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))

	inst, err := FromCivilTime(c, WithZoneName("Europe/Rome"))
	require.NoError(t, err)
	assert.Equal(t, float64(1701616320), inst.Seconds())
}

func TestString(t *testing.T) {
	rome := MustLoadZone("Europe/Rome")

	tests := []struct {
		name string
		inst Instant
		want string
	}{
		{"UTC", mustEpoch(t, 523291560), "Time: 523291560.0 (1986-08-01 14:46:00 UTC)"},
		{"fraction", mustEpoch(t, 523291560.8377), "Time: 523291560.8377 (1986-08-01 14:46:00.8377 UTC)"},
		{"offset", mustEpoch(t, 523291560, WithoutZone(), WithOffset(3600)), "Time: 523291560.0 (1986-08-01 15:46:00 +01:00)"},
		{"offset with seconds", mustEpoch(t, 523291560, WithoutZone(), WithOffset(3546)), "Time: 523291560.0 (1986-08-01 15:45:06 +00:59:06)"},
		{"zone", mustEpoch(t, 1702928535, WithZone(rome)), "Time: 1702928535.0 (2023-12-18 20:42:15 Europe/Rome)"},
		{"zone with DST", mustEpoch(t, 523291560, WithZone(rome)), "Time: 523291560.0 (1986-08-01 16:46:00 Europe/Rome DST)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.String())
		})
	}

	t.Run("sub-second offset", func(t *testing.T) {
		inst := mustEpoch(t, 523291560, WithoutZone(), WithOffset(3546.0945))
		assert.Contains(t, inst.String(), "+00:59:06.094500)")
	})
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, inst := range []Instant{
			mustEpoch(t, 523291560),
			mustEpoch(t, 523291560.8377),
			mustEpoch(t, 523291560, WithoutZone(), WithOffset(3546.0945)),
			mustEpoch(t, -1.5, WithoutZone(), WithOffset(-68400)),
			mustEpoch(t, 1698538500, WithZoneName("Europe/Rome")),
			mustEpoch(t, 1698542100, WithZoneName("Europe/Rome")),
		} {
			parsed, err := Parse(inst.String())
			require.NoError(t, err, inst.String())
			assert.True(t, parsed.Identical(inst), inst.String())
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{
			"",
			"Time: 2818 (2023-10-29 02:15:00 Europe/Rome DST)",
			"Time: 1698538500.0 (2025-10-29 02:15:00 Europe/Rome DST)",
			"Time: 1698538500.0 (2023-10-29 02:15:00 Europe/Rome)",
			"Time: abc (2023-10-29 02:15:00 UTC)",
			"Time: 0.0 (1970-01-01 00:00:00 Mars/Olympus)",
		} {
			_, err := Parse(text)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMalformedString), text)
		}
	})

	t.Run("text unmarshaling", func(t *testing.T) {
		var inst Instant
		require.NoError(t, inst.UnmarshalText([]byte("Time: 523291560.0 (1986-08-01 16:46:00 Europe/Rome DST)")))
		assert.Equal(t, float64(7200), inst.Offset())

		text, err := inst.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "Time: 523291560.0 (1986-08-01 16:46:00 Europe/Rome DST)", string(text))
	})
}

func TestWithZoneAndOffset(t *testing.T) {
	inst := mustEpoch(t, 523291560)

	ny := inst.WithZone(MustLoadZone("America/New_York"))
	assert.Equal(t, "Time: 523291560.0 (1986-08-01 10:46:00 America/New_York DST)", ny.String())
	assert.Equal(t, float64(-14400), ny.Offset())

	plus2 := inst.WithOffset(7200)
	assert.Equal(t, "Time: 523291560.0 (1986-08-01 16:46:00 +02:00)", plus2.String())

	rome := inst.WithZone(MustLoadZone("Europe/Rome")).WithOffset(3600)
	assert.Nil(t, rome.Zone())
	assert.Equal(t, "Time: 523291560.0 (1986-08-01 15:46:00 +01:00)", rome.String())

	assert.True(t, inst.Equal(rome))
	assert.False(t, inst.Identical(rome))
}

func TestISO(t *testing.T) {
	rome := MustLoadZone("Europe/Rome")

	assert.Equal(t, "1986-08-01T16:46:00+02:00", mustEpoch(t, 523291560, WithZone(rome)).ISO())
	assert.Equal(t, "1986-08-01T14:46:00+00:00", mustEpoch(t, 523291560).ISO())
	assert.Equal(t, "1986-08-01T14:46:00.500000+00:00", mustEpoch(t, 523291560.5).ISO())
}

func TestFromISO(t *testing.T) {
	t.Run("UTC designator", func(t *testing.T) {
		inst, err := FromISO("1986-08-01T16:46:00Z")
		require.NoError(t, err)
		assert.Equal(t, float64(523298760), inst.Seconds())
		assert.Equal(t, UTC, inst.Zone())
	})

	t.Run("numeric offset", func(t *testing.T) {
		inst, err := FromISO("1986-08-01T16:46:00+00:00")
		require.NoError(t, err)
		assert.Nil(t, inst.Zone())
		assert.Equal(t, float64(0), inst.Offset())

		inst, err = FromISO("2023-12-25T16:12:00+01:00")
		require.NoError(t, err)
		assert.Equal(t, float64(1703517120), inst.Seconds())
	})

	t.Run("naive", func(t *testing.T) {
		_, err := FromISO("2023-06-11T17:56:00")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))

		inst, err := FromISO("2023-06-11T17:56:00", WithOffset(3600))
		require.NoError(t, err)
		assert.Equal(t, float64(1686502560), inst.Seconds())

		inst, err = FromISO("2023-06-11T17:56:00", WithOffset(0))
		require.NoError(t, err)
		assert.Equal(t, float64(1686506160), inst.Seconds())

		inst, err = FromISO("2023-12-03T16:12:00", WithZoneName("Europe/Rome"))
		require.NoError(t, err)
		assert.Equal(t, float64(1701616320), inst.Seconds())
	})

	t.Run("moved to a zone", func(t *testing.T) {
		inst, err := FromISO("1986-08-01T16:46:00+02:00", WithZoneName("Europe/Rome"))
		require.NoError(t, err)
		assert.Equal(t, float64(523291560), inst.Seconds())
		assert.Equal(t, float64(7200), inst.Offset())

		inst, err = FromISO("1986-08-01T16:46:00+02:00", WithZoneName("America/New_York"))
		require.NoError(t, err)
		assert.Equal(t, float64(-14400), inst.Offset())
	})

	t.Run("zone and offset given", func(t *testing.T) {
		inst, err := FromISO("2023-06-11T17:56:00+00:00", WithZoneName("Europe/Rome"), WithOffset(7200))
		require.NoError(t, err)
		assert.Equal(t, "Time: 1686506160.0 (2023-06-11 19:56:00 Europe/Rome DST)", inst.String())

		_, err = FromISO("2023-06-11T17:56:00+00:00", WithZoneName("Europe/Rome"), WithOffset(0))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInconsistentOffset))

		_, err = FromISO("2023-06-11T17:56:00+03:00", WithZoneName("Europe/Rome"), WithOffset(10800))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInconsistentOffset))
	})

	t.Run("ambiguous wall clock with offset", func(t *testing.T) {
		inst, err := FromISO("2023-10-29T02:15:00+01:00", WithZoneName("Europe/Rome"))
		require.NoError(t, err)
		assert.Equal(t, "Time: 1698542100.0 (2023-10-29 02:15:00 Europe/Rome)", inst.String())
	})

	t.Run("fraction", func(t *testing.T) {
		inst, err := FromISO("1970-01-01T00:00:01.25Z")
		require.NoError(t, err)
		assert.Equal(t, 1.25, inst.Seconds())
	})

	t.Run("malformed", func(t *testing.T) {
		for _, text := range []string{"", "1986-08-01", "1986-13-01T00:00:00Z", "1986-08-01T16:46:00+2"} {
			_, err := FromISO(text)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMalformedString), text)
		}
	})
}

func TestFromTime(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	t.Run("named location", func(t *testing.T) {
		inst, err := FromTime(time.Date(2023, 5, 6, 13, 45, 0, 0, rome))
		require.NoError(t, err)
		assert.Equal(t, "Europe/Rome", inst.Zone().Name())
		assert.Equal(t, float64(7200), inst.Offset())
	})

	t.Run("fixed location", func(t *testing.T) {
		inst, err := FromTime(time.Date(2023, 5, 6, 13, 45, 0, 0, time.FixedZone("", -3600)))
		require.NoError(t, err)
		assert.Nil(t, inst.Zone())
		assert.Equal(t, float64(-3600), inst.Offset())
	})

	t.Run("moved to another zone", func(t *testing.T) {
		inst, err := FromTime(time.Date(2023, 5, 6, 13, 45, 0, 0, rome), WithZoneName("America/New_York"))
		require.NoError(t, err)
		assert.Equal(t, 7, inst.Civil().Hour)
	})

	t.Run("moved to an offset", func(t *testing.T) {
		inst, err := FromTime(time.Date(2023, 5, 6, 13, 45, 0, 0, rome), WithOffset(0))
		require.NoError(t, err)
		assert.Nil(t, inst.Zone())
		assert.Equal(t, 11, inst.Civil().Hour)
	})

	t.Run("back to Go time", func(t *testing.T) {
		inst := mustEpoch(t, 523291560, WithZoneName("Europe/Rome"))
		gt := inst.Time()
		assert.Equal(t, "Europe/Rome", gt.Location().String())
		assert.Equal(t, 16, gt.Hour())
	})
}

func TestArithmetic(t *testing.T) {
	a, b := 4.3, 4.2
	time1 := mustEpoch(t, a)
	time2 := mustEpoch(t, b)

	tests := []struct {
		op   Op
		want float64
	}{
		{OpAdd, a + b},
		{OpSub, a - b},
		{OpMul, a * b},
		{OpDiv, a / b},
		{OpMod, 0.09999999999999964},
		{OpPow, 457.685879110224},
		{OpFloorDiv, 1},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			res, err := time1.Apply(tt.op, InstantOperand(time2))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Seconds(), 1e-9)
			assert.Equal(t, UTC, res.Zone())
		})
	}

	t.Run("reflected with numbers", func(t *testing.T) {
		res, err := time1.ApplyReflected(OpSub, NumberOperand(10))
		require.NoError(t, err)
		assert.InDelta(t, 5.7, res.Seconds(), 1e-9)

		res, err = time1.ApplyReflected(OpFloorDiv, NumberOperand(10))
		require.NoError(t, err)
		assert.Equal(t, float64(2), res.Seconds())
	})

	t.Run("floor semantics with negatives", func(t *testing.T) {
		res, err := mustEpoch(t, -7).Apply(OpMod, NumberOperand(3))
		require.NoError(t, err)
		assert.Equal(t, float64(2), res.Seconds())

		res, err = mustEpoch(t, -7).Apply(OpFloorDiv, NumberOperand(2))
		require.NoError(t, err)
		assert.Equal(t, float64(-4), res.Seconds())
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := time1.Apply(OpDiv, NumberOperand(0))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})

	t.Run("zone wins over offset", func(t *testing.T) {
		other := mustDate(t, 1970, 1, 1, 2, 0, 0, WithoutZone(), WithOffset(3600))
		res, err := time1.Add(other)
		require.NoError(t, err)
		assert.InDelta(t, 3604.3, res.Seconds(), 1e-9)
		assert.Equal(t, UTC, res.Zone())

		res, err = other.Add(time1)
		require.NoError(t, err)
		assert.Equal(t, UTC, res.Zone())
	})

	t.Run("incompatible contexts", func(t *testing.T) {
		_, err := time1.Add(mustEpoch(t, 1, WithZoneName("Europe/Rome")))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeIncompatibleContext))

		left := mustEpoch(t, 1, WithoutZone(), WithOffset(7200))
		right := mustEpoch(t, 1, WithoutZone(), WithOffset(3600))
		_, err = left.Add(right)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeIncompatibleContext))
	})

	t.Run("with Go time", func(t *testing.T) {
		res, err := time1.Apply(OpAdd, TimeOperand(time.Unix(60, 0).UTC()))
		require.NoError(t, err)
		assert.InDelta(t, 64.3, res.Seconds(), 1e-9)
	})

	t.Run("numbers keep the zone", func(t *testing.T) {
		rome := mustEpoch(t, 1698530400, WithZoneName("Europe/Rome"))
		res, err := rome.AddSeconds(86400)
		require.NoError(t, err)
		assert.Equal(t, float64(3600), res.Offset())
	})
}

func TestComparison(t *testing.T) {
	early := mustEpoch(t, 1)
	late := mustEpoch(t, 2, WithZoneName("Europe/Rome"))

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.Equal(t, -1, early.Compare(late))
	assert.Equal(t, 0, early.Compare(early))
	assert.True(t, early.Equal(mustEpoch(t, 1, WithoutZone(), WithOffset(3600))))
}

func TestNumeric(t *testing.T) {
	inst, err := FromHex("0x1.ffffp10")
	require.NoError(t, err)
	assert.Equal(t, 2047.984375, inst.Seconds())

	assert.Equal(t, "0x1.ec00000000000p+6", mustEpoch(t, 123).Hex())
	assert.Equal(t, "0x0.0p+0", mustEpoch(t, 0).Hex())
	assert.Equal(t, "-0x1.8000000000000p-1", mustEpoch(t, -0.75).Hex())

	back, err := FromHex(mustEpoch(t, 1702928535.25).Hex())
	require.NoError(t, err)
	assert.Equal(t, 1702928535.25, back.Seconds())

	_, err = FromHex("0xzz")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMalformedString))

	assert.True(t, mustEpoch(t, 60).IsInteger())
	assert.False(t, mustEpoch(t, 60.5).IsInteger())

	num, den := mustEpoch(t, 2.5).IntegerRatio()
	assert.Equal(t, big.NewInt(5), num)
	assert.Equal(t, big.NewInt(2), den)

	_, err = mustEpoch(t, 1).Real()
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedOperation))
	_, err = mustEpoch(t, 1).Imag()
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedOperation))
	_, err = mustEpoch(t, 1).Conjugate()
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedOperation))
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"+02:00", 7200, true},
		{"-05:30", -19800, true},
		{"+00:00", 0, true},
		{"-10:00:30", -36030, true},
		{"+0530", 19800, true},
		{"-0300", -10800, true},
		{"+02:60", 0, false},
		{"+0260", 0, false},
		{"+053", 0, false},
		{"+05300", 0, false},
		{"02:00", 0, false},
		{"Europe/Rome", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseOffset(tt.text)
			if !tt.ok {
				assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMalformedString))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstant_OffsetString(t *testing.T) {
	summer, err := FromEpoch(1686484020, WithZoneName("Europe/Rome"))
	require.NoError(t, err)
	assert.Equal(t, "+02:00", summer.OffsetString())

	utc, err := FromEpoch(0)
	require.NoError(t, err)
	assert.Equal(t, "+00:00", utc.OffsetString())

	fixed, err := FromEpoch(0, WithOffset(-19800))
	require.NoError(t, err)
	assert.Equal(t, "-05:30", fixed.OffsetString())
}
