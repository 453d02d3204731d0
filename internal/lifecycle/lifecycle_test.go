package lifecycle_test

import (
	"fmt"
	"testing"
	"time"

	"hekayat-server/internal/lifecycle"
	"hekayat-server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeStory создает машинную историю со стартом start и заполненными главами.
func makeStory(id string, start time.Time) model.Story {
	return model.Story{
		ID:        id,
		Title:     "История " + id,
		Genre:     model.GenreDrama,
		Day1:      "глава 1",
		Day2:      "глава 2",
		Day3:      "глава 3",
		StartDate: start.Format(time.RFC3339),
	}
}

func TestIsActive_UserStoryAlwaysActive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := makeStory("u1", now.AddDate(0, -6, 0))
	s.IsUserStory = true
	s.AuthorName = "reader42"

	assert.True(t, lifecycle.IsActive(&s, now), "пользовательская история активна независимо от возраста")
}

func TestIsActive_WindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		age    time.Duration
		active bool
	}{
		{"just created", 0, true},
		{"3 days old", 72 * time.Hour, true},
		{"7 days 23 hours old", 7*24*time.Hour + 23*time.Hour, true},
		{"exactly 8 days old", 8 * 24 * time.Hour, false},
		{"8 days 1 hour old", 8*24*time.Hour + time.Hour, false},
		{"30 days old", 30 * 24 * time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := makeStory("s", now.Add(-tc.age))
			assert.Equal(t, tc.active, lifecycle.IsActive(&s, now))
		})
	}
}

func TestIsActive_ExactMultipleOfDay(t *testing.T) {
	// Ровно 7*24h: внутри окна 8 суток - все еще активна.
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s := makeStory("s", now.Add(-7*24*time.Hour))
	assert.True(t, lifecycle.IsActive(&s, now))
}

func TestUnlockedDay_Progression(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		day   int
	}{
		{"started today", now.Add(-2 * time.Hour), 1},
		{"started late yesterday", now.Add(-10 * time.Hour), 2}, // вчера 23:30 - календарный день уже другой
		{"started yesterday", now.AddDate(0, 0, -1), 2},
		{"started two days ago", now.AddDate(0, 0, -2), 3},
		{"started 30 days ago", now.AddDate(0, 0, -30), 3},
		{"starts tomorrow", now.AddDate(0, 0, 1), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.day, lifecycle.UnlockedDay(tc.start, now))
		})
	}
}

func TestUnlockedDay_MonotonicNonDecreasing(t *testing.T) {
	start := time.Date(2025, 6, 10, 18, 45, 0, 0, time.UTC)
	prev := 0
	for hour := 0; hour <= 24*10; hour++ {
		now := start.Add(time.Duration(hour) * time.Hour)
		day := lifecycle.UnlockedDay(start, now)
		require.GreaterOrEqual(t, day, prev, "день разблокировки не должен убывать (hour=%d)", hour)
		require.GreaterOrEqual(t, day, 1)
		require.LessOrEqual(t, day, 3)
		prev = day
	}
}

func TestUnlockedDayFor_UserStoryBypassesGate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := makeStory("u1", now)
	s.IsUserStory = true

	assert.Equal(t, 3, lifecycle.UnlockedDayFor(&s, now))
}

func TestNeedsDailyTopUp(t *testing.T) {
	today := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	t.Run("empty set needs top-up", func(t *testing.T) {
		assert.True(t, lifecycle.NeedsDailyTopUp(nil, today))
	})

	t.Run("quota met by today's stories only", func(t *testing.T) {
		var stories []model.Story
		for i := 0; i < lifecycle.DailyQuota; i++ {
			stories = append(stories, makeStory(fmt.Sprintf("t%d", i), today.Add(-time.Duration(i)*time.Minute)))
		}
		assert.False(t, lifecycle.NeedsDailyTopUp(stories, today))
	})

	t.Run("yesterday's stories do not count", func(t *testing.T) {
		var stories []model.Story
		for i := 0; i < lifecycle.DailyQuota; i++ {
			stories = append(stories, makeStory(fmt.Sprintf("y%d", i), yesterday))
		}
		assert.True(t, lifecycle.NeedsDailyTopUp(stories, today))
	})

	t.Run("user stories do not count toward quota", func(t *testing.T) {
		var stories []model.Story
		for i := 0; i < lifecycle.DailyQuota; i++ {
			s := makeStory(fmt.Sprintf("u%d", i), today)
			s.IsUserStory = true
			stories = append(stories, s)
		}
		assert.True(t, lifecycle.NeedsDailyTopUp(stories, today))
	})
}

func TestIncompleteStories_IndependentOfActiveWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	complete := makeStory("ok", now)
	noDay2 := makeStory("broken", now)
	noDay2.Day2 = ""
	// Давно истекшая из активного окна, но все еще требующая ремонта.
	oldBroken := makeStory("old-broken", now.AddDate(0, 0, -20))
	oldBroken.Day3 = ""
	userNoDay3 := makeStory("user", now)
	userNoDay3.Day3 = ""
	userNoDay3.IsUserStory = true

	got := lifecycle.IncompleteStories([]model.Story{complete, noDay2, oldBroken, userNoDay3})

	require.Len(t, got, 2)
	assert.Equal(t, "broken", got[0].ID)
	assert.Equal(t, "old-broken", got[1].ID, "возраст не влияет на попадание в список ремонта")
}

func TestActiveStories_Filter(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	fresh := makeStory("fresh", now.Add(-time.Hour))
	expired := makeStory("expired", now.AddDate(0, 0, -12))
	user := makeStory("user", now.AddDate(0, 0, -12))
	user.IsUserStory = true

	got := lifecycle.ActiveStories([]model.Story{fresh, expired, user}, now)

	require.Len(t, got, 2)
	assert.Equal(t, "fresh", got[0].ID)
	assert.Equal(t, "user", got[1].ID)
}
