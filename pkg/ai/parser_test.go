package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hekayat-server/internal/model"
)

func TestExtractJSON(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		out, err := extractJSON(`{"a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("markdown fenced", func(t *testing.T) {
		out, err := extractJSON("Here you go:\n```json\n{\"a\": 1}\n```\nEnjoy!")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("array with trailing prose", func(t *testing.T) {
		out, err := extractJSON(`[{"a": 1}, {"a": 2}] hope this helps`)
		require.NoError(t, err)
		assert.Equal(t, `[{"a": 1}, {"a": 2}]`, out)
	})

	t.Run("braces inside strings ignored", func(t *testing.T) {
		out, err := extractJSON(`{"text": "a } inside \" quotes"}`)
		require.NoError(t, err)
		assert.Equal(t, `{"text": "a } inside \" quotes"}`, out)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := extractJSON("   ")
		assert.Error(t, err)
	})

	t.Run("no json", func(t *testing.T) {
		_, err := extractJSON("sorry, I cannot do that")
		assert.Error(t, err)
	})

	t.Run("unclosed json", func(t *testing.T) {
		_, err := extractJSON(`{"a": 1`)
		assert.Error(t, err)
	})
}

func TestParseDrafts(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		resp := "```json\n" + `[
			{"title": "The Last Train", "genre": "Drama", "category": "city", "characters": ["Omar"],
			 "day1": "c1", "day2": "c2", "day3": "c3", "summary": "s", "imagePrompt": "a train at night"},
			{"title": "Red Door", "genre": "Horror", "category": "house", "characters": ["Lina"],
			 "day1": "c1", "day2": "", "day3": "", "summary": "s", "imagePrompt": "a red door"}
		]` + "\n```"
		drafts, err := parseDrafts(resp)
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, "The Last Train", drafts[0].Title)
		assert.Equal(t, model.GenreHorror, drafts[1].Genre)
		// Пустые главы допустимы в черновике.
		assert.Empty(t, drafts[1].Day2)
	})

	t.Run("unknown genre coerced to Drama", func(t *testing.T) {
		drafts, err := parseDrafts(`[{"title": "X", "genre": "Comedy", "day1": "a", "day2": "b", "day3": "c"}]`)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, model.GenreDrama, drafts[0].Genre)
	})

	t.Run("untitled drafts dropped", func(t *testing.T) {
		drafts, err := parseDrafts(`[{"title": "", "genre": "Drama"}, {"title": "Ok", "genre": "Love"}]`)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, "Ok", drafts[0].Title)
	})

	t.Run("all invalid is an error", func(t *testing.T) {
		_, err := parseDrafts(`[{"title": ""}]`)
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseDrafts(`[{"title": "X",}]`)
		assert.Error(t, err)
	})
}

func TestParseChapterSet(t *testing.T) {
	t.Run("full set", func(t *testing.T) {
		cs, err := parseChapterSet(`{"day1": "a", "day2": "b", "day3": "c"}`)
		require.NoError(t, err)
		assert.Equal(t, model.ChapterSet{Day1: "a", Day2: "b", Day3: "c"}, cs)
	})

	t.Run("all chapters empty is an error", func(t *testing.T) {
		_, err := parseChapterSet(`{"day1": "", "day2": "", "day3": ""}`)
		assert.Error(t, err)
	})
}

func TestParseRemix(t *testing.T) {
	t.Run("complete remix", func(t *testing.T) {
		rd, err := parseRemix(`{"title": "T", "day1": "a", "day2": "b", "day3": "c", "summary": "s", "imagePrompt": "p"}`)
		require.NoError(t, err)
		assert.Equal(t, "T", rd.Title)
	})

	t.Run("incomplete remix rejected", func(t *testing.T) {
		_, err := parseRemix(`{"title": "T", "day1": "a", "day2": "", "day3": "c"}`)
		assert.Error(t, err)
	})

	t.Run("untitled remix rejected", func(t *testing.T) {
		_, err := parseRemix(`{"title": " ", "day1": "a", "day2": "b", "day3": "c"}`)
		assert.Error(t, err)
	})
}
