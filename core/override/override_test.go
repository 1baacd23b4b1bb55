package override

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/timeline"
)

var t0 = time.Date(2025, 1, 2, 17, 0, 0, 0, time.UTC)

func factor(f float64) *float64 { return &f }

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleStandard, r)
	r, err = ParseRole("exercise")
	require.NoError(t, err)
	assert.Equal(t, RoleExercise, r)
	_, err = ParseRole("sleep")
	assert.Error(t, err)
}

func TestSettingsMultipliers(t *testing.T) {
	s := Settings{Role: RoleExercise, InsulinNeedsScaleFactor: factor(0.5)}
	require.NoError(t, s.Validate())

	basal, ok := s.BasalRateMultiplier()
	assert.True(t, ok)
	assert.Equal(t, 0.5, basal)
	isf, ok := s.InsulinSensitivityMultiplier()
	assert.True(t, ok)
	assert.Equal(t, 2.0, isf)
	cr, ok := s.CarbRatioMultiplier()
	assert.True(t, ok)
	assert.Equal(t, 2.0, cr)
	assert.Equal(t, 0.5, s.EffectiveInsulinNeedsScaleFactor())

	none := Settings{}
	_, ok = none.BasalRateMultiplier()
	assert.False(t, ok)
	_, ok = none.CarbRatioMultiplier()
	assert.False(t, ok)
	assert.Equal(t, 1.0, none.EffectiveInsulinNeedsScaleFactor())
}

func TestSettingsValidate(t *testing.T) {
	assert.Error(t, Settings{Role: "nap"}.Validate())
	assert.Error(t, Settings{InsulinNeedsScaleFactor: factor(0)}.Validate())
	assert.NoError(t, Settings{}.Validate())
}

func TestTimelines(t *testing.T) {
	run := Override{Name: "run", Settings: Settings{Role: RoleExercise}, Interval: interval.WithDuration(t0.Add(2*time.Hour), time.Hour)}
	walk := Override{Name: "walk", Settings: Settings{Role: RoleExercise}, Interval: interval.WithDuration(t0, 30*time.Minute)}
	party := Override{Name: "party", Settings: Settings{Role: RoleStandard}, Interval: interval.WithDuration(t0, 5*time.Hour)}

	zero, rated, err := Timelines([]Override{run, party, walk}, ExerciseEffect{InsulinRate: 1.5, SuspendCarbs: true})
	require.NoError(t, err)
	require.Equal(t, 2, zero.Len())
	assert.Equal(t, walk.Interval, zero.Intervals()[0])
	assert.Equal(t, run.Interval, zero.Intervals()[1])
	require.Equal(t, 2, rated.Len())
	assert.Equal(t, 1.5, rated.Periods()[1].Rate)

	zero, rated, err = Timelines([]Override{run}, DefaultExerciseEffect())
	require.NoError(t, err)
	assert.Equal(t, 1, zero.Len())
	assert.Equal(t, 0, rated.Len())

	zero, _, err = Timelines([]Override{run}, ExerciseEffect{InsulinRate: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Len())
}

func TestTimelinesRejectOverlap(t *testing.T) {
	a := Override{Settings: Settings{Role: RoleExercise}, Interval: interval.WithDuration(t0, time.Hour)}
	b := Override{Settings: Settings{Role: RoleExercise}, Interval: interval.WithDuration(t0.Add(30*time.Minute), time.Hour)}
	_, _, err := Timelines([]Override{a, b}, DefaultExerciseEffect())
	assert.ErrorIs(t, err, timeline.ErrOverlap)
}

func TestActiveAt(t *testing.T) {
	long := Override{Name: "long", Interval: interval.WithDuration(t0, 4*time.Hour)}
	short := Override{Name: "short", Interval: interval.WithDuration(t0.Add(time.Hour), time.Hour)}
	o, ok := ActiveAt([]Override{short, long}, t0.Add(90*time.Minute))
	require.True(t, ok)
	assert.Equal(t, "short", o.Name)
	o, ok = ActiveAt([]Override{short, long}, t0.Add(3*time.Hour))
	require.True(t, ok)
	assert.Equal(t, "long", o.Name)
	_, ok = ActiveAt([]Override{short, long}, t0.Add(5*time.Hour))
	assert.False(t, ok)
}
