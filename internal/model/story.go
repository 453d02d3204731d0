package model

import "time"

// StoryGenre - жанр истории.
type StoryGenre string

const (
	GenreDrama  StoryGenre = "Drama"
	GenreHorror StoryGenre = "Horror"
	GenreLove   StoryGenre = "Love"
)

// Valid проверяет, что жанр входит в допустимый набор.
func (g StoryGenre) Valid() bool {
	switch g {
	case GenreDrama, GenreHorror, GenreLove:
		return true
	}
	return false
}

// Story - центральная сущность: трехдневная сериализованная история.
// Имена JSON-полей совпадают с форматом документов в хранилище,
// их нельзя менять без миграции данных.
type Story struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Genre      StoryGenre `json:"genre"`
	Category   string     `json:"category"`
	Characters []string   `json:"characters"`
	Day1       string     `json:"day1"`
	Day2       string     `json:"day2"`
	Day3       string     `json:"day3"`
	Summary    string     `json:"summary"`
	// StartDate - начало окна видимости и отсчета разблокировки глав (RFC3339).
	StartDate        string   `json:"startDate"`
	AverageRating    *float64 `json:"average_rating"`
	UserRatingsCount int      `json:"user_ratings_count"`
	ShareCount       int      `json:"share_count"`
	IsUserStory      bool     `json:"isUserStory,omitempty"`
	CoverImage       string   `json:"coverImage,omitempty"`
	RemixOf          string   `json:"remixOf,omitempty"`
	AuthorName       string   `json:"authorName,omitempty"`
}

// StartTime парсит StartDate. При некорректном значении возвращает нулевое время -
// такая история считается бесконечно старой и выпадает из активного окна сама.
func (s *Story) StartTime() time.Time {
	t, err := time.Parse(time.RFC3339, s.StartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsComplete сообщает, заполнены ли все три главы.
func (s *Story) IsComplete() bool {
	return s.Day1 != "" && s.Day2 != "" && s.Day3 != ""
}

// Chapter возвращает текст главы по номеру дня (1-3).
func (s *Story) Chapter(day int) string {
	switch day {
	case 1:
		return s.Day1
	case 2:
		return s.Day2
	case 3:
		return s.Day3
	}
	return ""
}

// StoryDraft - результат генерации одной истории от AI-бэкенда.
// Главы могут оказаться пустыми при обрыве генерации; такие истории
// дозаполняются на следующем проходе синхронизации.
type StoryDraft struct {
	Title       string     `json:"title"`
	Genre       StoryGenre `json:"genre"`
	Category    string     `json:"category"`
	Characters  []string   `json:"characters"`
	Day1        string     `json:"day1"`
	Day2        string     `json:"day2"`
	Day3        string     `json:"day3"`
	Summary     string     `json:"summary"`
	ImagePrompt string     `json:"imagePrompt"`
}

// ChapterSet - ответ AI на запрос дозаполнения глав.
// Возвращаются все три поля; вызывающий подставляет только те,
// которые были пустыми у него.
type ChapterSet struct {
	Day1 string `json:"day1"`
	Day2 string `json:"day2"`
	Day3 string `json:"day3"`
}

// RemixDraft - результат ремикса существующей истории с твистом.
type RemixDraft struct {
	Title       string `json:"title"`
	Day1        string `json:"day1"`
	Day2        string `json:"day2"`
	Day3        string `json:"day3"`
	Summary     string `json:"summary"`
	ImagePrompt string `json:"imagePrompt"`
}
