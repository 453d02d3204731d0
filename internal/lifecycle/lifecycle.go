// Package lifecycle реализует правила ежедневного жизненного цикла контента:
// окно видимости историй, разблокировку глав по календарным дням, дневную
// квоту генерации и поиск недосозданных историй. Все функции чистые,
// без I/O - оркестратор синхронизации пересчитывает их с нуля на каждом
// проходе вместо хранения флагов "квота выполнена" / "ремонт сделан".
package lifecycle

import (
	"time"

	"hekayat-server/internal/model"
)

const (
	// DailyQuota - сколько машинных историй должно стартовать каждый день.
	DailyQuota = 10
	// ActiveWindowDays - окно видимости машинной истории в днях (включительно).
	ActiveWindowDays = 7
	// MaxDay - число глав сериализованной истории.
	MaxDay = 3
)

// IsActive сообщает, видна ли история в ленте на момент now.
// Пользовательские истории видны всегда. Машинная история активна, пока
// расстояние до старта строго меньше (ActiveWindowDays+1) суток:
// это окно по расстоянию на часах, а не по границам календарных дней,
// поэтому история возрастом 7д23ч еще видна, а ровно 8 суток - уже нет.
func IsActive(s *model.Story, now time.Time) bool {
	if s.IsUserStory {
		return true
	}
	diff := now.Sub(s.StartTime())
	if diff < 0 {
		diff = -diff
	}
	return diff < time.Duration(ActiveWindowDays+1)*24*time.Hour
}

// ActiveStories возвращает истории, проходящие фильтр IsActive.
func ActiveStories(stories []model.Story, now time.Time) []model.Story {
	active := make([]model.Story, 0, len(stories))
	for _, s := range stories {
		if IsActive(&s, now) {
			active = append(active, s)
		}
	}
	return active
}

// UnlockedDay вычисляет номер главы, доступной для чтения "сегодня".
// Обе даты усекаются до местной полуночи; глава 1 открыта в день старта,
// дальше по одной в день, после третьего дня номер остается 3.
func UnlockedDay(start, now time.Time) int {
	startMid := midnight(start)
	nowMid := midnight(now)
	day := int(nowMid.Sub(startMid).Hours()/24) + 1
	if day < 1 {
		return 1
	}
	if day > MaxDay {
		return MaxDay
	}
	return day
}

// UnlockedDayFor - вариант UnlockedDay на уровне истории: пользовательские
// истории не проходят через календарный гейт, все главы открыты сразу.
func UnlockedDayFor(s *model.Story, now time.Time) int {
	if s.IsUserStory {
		return MaxDay
	}
	return UnlockedDay(s.StartTime(), now)
}

// NeedsDailyTopUp сообщает, нужно ли догенерировать истории: считаются
// только машинные истории, стартовавшие в календарную дату today,
// а не все активные.
func NeedsDailyTopUp(stories []model.Story, today time.Time) bool {
	return CountStartedOn(stories, today) < DailyQuota
}

// CountStartedOn считает машинные истории со стартом в календарную дату day.
func CountStartedOn(stories []model.Story, day time.Time) int {
	count := 0
	for _, s := range stories {
		if s.IsUserStory {
			continue
		}
		if sameCalendarDay(s.StartTime(), day) {
			count++
		}
	}
	return count
}

// IncompleteStories возвращает машинные истории с хотя бы одной пустой главой.
// Берется полный загруженный набор, без фильтра активности: незавершенная
// генерация должна быть дочинена независимо от возраста истории.
func IncompleteStories(stories []model.Story) []model.Story {
	incomplete := make([]model.Story, 0)
	for _, s := range stories {
		if s.IsUserStory {
			continue
		}
		if !s.IsComplete() {
			incomplete = append(incomplete, s)
		}
	}
	return incomplete
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameCalendarDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
