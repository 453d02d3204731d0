package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hekayat-server/internal/model"
)

// extractJSON вырезает JSON-значение из ответа модели. Модели регулярно
// оборачивают JSON в markdown-ограждения или сопровождают его текстом,
// поэтому берем фрагмент от первой открывающей скобки до парной ей.
func extractJSON(responseText string) (string, error) {
	s := strings.TrimSpace(responseText)
	if s == "" {
		return "", errors.New("пустой ответ для парсинга")
	}

	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return "", fmt.Errorf("в ответе не найден JSON: %.80q", s)
	}

	open := s[start]
	var closer byte
	if open == '[' {
		closer = ']'
	} else {
		closer = '}'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("JSON в ответе не закрыт: %.80q", s)
}

// parseDrafts разбирает и валидирует пачку черновиков историй.
// Черновики без заголовка отбрасываются, неизвестный жанр приводится к Drama.
// Пустые главы допустимы - их добирает проход дозаполнения.
func parseDrafts(responseText string) ([]model.StoryDraft, error) {
	raw, err := extractJSON(responseText)
	if err != nil {
		return nil, err
	}

	var drafts []model.StoryDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		return nil, fmt.Errorf("ошибка разбора JSON черновиков: %w", err)
	}

	valid := make([]model.StoryDraft, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			log.Warn().Msg("Черновик без заголовка отброшен")
			continue
		}
		if !d.Genre.Valid() {
			log.Warn().Str("title", d.Title).Str("genre", string(d.Genre)).Msg("Неизвестный жанр, приведен к Drama")
			d.Genre = model.GenreDrama
		}
		valid = append(valid, d)
	}

	if len(valid) == 0 {
		return nil, errors.New("ни одного валидного черновика в ответе")
	}
	return valid, nil
}

// parseChapterSet разбирает ответ дозаполнения глав.
func parseChapterSet(responseText string) (model.ChapterSet, error) {
	var cs model.ChapterSet
	raw, err := extractJSON(responseText)
	if err != nil {
		return cs, err
	}
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return cs, fmt.Errorf("ошибка разбора JSON глав: %w", err)
	}
	if cs.Day1 == "" && cs.Day2 == "" && cs.Day3 == "" {
		return cs, errors.New("ответ дозаполнения не содержит ни одной главы")
	}
	return cs, nil
}

// parseRemix разбирает ответ ремикса. Ремикс обязан быть завершенным:
// он сразу публикуется как пользовательская история.
func parseRemix(responseText string) (model.RemixDraft, error) {
	var rd model.RemixDraft
	raw, err := extractJSON(responseText)
	if err != nil {
		return rd, err
	}
	if err := json.Unmarshal([]byte(raw), &rd); err != nil {
		return rd, fmt.Errorf("ошибка разбора JSON ремикса: %w", err)
	}
	if strings.TrimSpace(rd.Title) == "" {
		return rd, errors.New("ремикс без заголовка")
	}
	if rd.Day1 == "" || rd.Day2 == "" || rd.Day3 == "" {
		return rd, errors.New("ремикс с незаполненными главами")
	}
	return rd, nil
}
