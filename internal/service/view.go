package service

import (
	"sync"

	"hekayat-server/internal/model"
)

// StoryView - опубликованный снимок активных историй. Обработчики читают
// снимок, пока синхронизация работает в фоне; замена снимка атомарна
// под мьютексом, полуобновленное состояние наружу не видно.
type StoryView struct {
	mu      sync.RWMutex
	stories []model.Story
}

// NewStoryView создает пустой снимок.
func NewStoryView() *StoryView {
	return &StoryView{}
}

// Publish заменяет снимок целиком.
func (v *StoryView) Publish(stories []model.Story) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stories = stories
}

// Snapshot возвращает копию текущего снимка.
func (v *StoryView) Snapshot() []model.Story {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]model.Story, len(v.stories))
	copy(out, v.stories)
	return out
}
