package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFareCheckMode(t *testing.T) {
	t.Run("bool encodings", func(t *testing.T) {
		mode, err := NormalizeFareCheckMode(true)
		require.NoError(t, err)
		require.Equal(t, FareCheckSameFlight, mode)

		mode, err = NormalizeFareCheckMode(false)
		require.NoError(t, err)
		require.Equal(t, FareCheckDisabled, mode)
	})

	t.Run("string encodings", func(t *testing.T) {
		cases := map[string]FareCheckMode{
			"no":               FareCheckDisabled,
			"same_flight":      FareCheckSameFlight,
			"same_day_nonstop": FareCheckSameDayNonstop,
			"same_day":         FareCheckSameDay,
		}
		for input, expected := range cases {
			mode, err := NormalizeFareCheckMode(input)
			require.NoError(t, err)
			require.Equal(t, expected, mode)
		}
	})

	t.Run("bool and string encodings agree", func(t *testing.T) {
		fromBool, err := NormalizeFareCheckMode(true)
		require.NoError(t, err)
		fromString, err := NormalizeFareCheckMode("same_flight")
		require.NoError(t, err)
		require.Equal(t, fromBool, fromString)

		fromBool, err = NormalizeFareCheckMode(false)
		require.NoError(t, err)
		fromString, err = NormalizeFareCheckMode("no")
		require.NoError(t, err)
		require.Equal(t, fromBool, fromString)
	})

	t.Run("idempotent", func(t *testing.T) {
		mode, err := NormalizeFareCheckMode("same_day")
		require.NoError(t, err)

		again, err := NormalizeFareCheckMode(mode)
		require.NoError(t, err)
		require.Equal(t, mode, again)
	})

	t.Run("rejected", func(t *testing.T) {
		_, err := NormalizeFareCheckMode("same_week")
		require.Error(t, err)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "check_fares", ve.Field)
		require.Equal(t, InvalidEnum, ve.Kind)

		_, err = NormalizeFareCheckMode(12)
		require.Error(t, err)
	})
}

func TestNormalizeNotificationLevel(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		lvl, err := NormalizeNotificationLevel(n)
		require.NoError(t, err)
		require.Equal(t, NotificationLevel(n), lvl)
	}

	// JSON numbers arrive as float64
	lvl, err := NormalizeNotificationLevel(float64(3))
	require.NoError(t, err)
	require.Equal(t, LevelError, lvl)

	for _, raw := range []any{0, 4, -1, 2.5, "2", true} {
		_, err := NormalizeNotificationLevel(raw)
		require.Error(t, err, "input %v", raw)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, InvalidEnum, ve.Kind)
	}
}

func TestNormalizeRetrievalInterval(t *testing.T) {
	interval, err := NormalizeRetrievalInterval(6)
	require.NoError(t, err)
	require.Equal(t, RetrievalInterval(6), interval)
	require.Equal(t, 6*time.Hour, interval.Duration())
	require.False(t, interval.Disabled())

	interval, err = NormalizeRetrievalInterval(float64(0))
	require.NoError(t, err)
	require.True(t, interval.Disabled())

	for _, raw := range []any{-1, 1.5, "24", nil} {
		_, err := NormalizeRetrievalInterval(raw)
		require.Error(t, err, "input %v", raw)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, InvalidRange, ve.Kind)
	}
}

func TestNormalizeNotificationURLs(t *testing.T) {
	urls, err := NormalizeNotificationURLs("slack://token@C123")
	require.NoError(t, err)
	require.Equal(t, []string{"slack://token@C123"}, urls)

	urls, err = NormalizeNotificationURLs([]any{"https://example.com/hook", "telegram://tok@42"})
	require.NoError(t, err)
	require.Len(t, urls, 2)

	// Empty strings are dropped rather than kept as destinations
	urls, err = NormalizeNotificationURLs("")
	require.NoError(t, err)
	require.Empty(t, urls)

	_, err = NormalizeNotificationURLs([]any{"https://example.com", 42})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, InvalidType, ve.Kind)

	_, err = NormalizeNotificationURLs(42)
	require.Error(t, err)
}
