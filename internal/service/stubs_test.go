package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/repository"
)

type stubClient struct {
	response string
	err      error
	calls    atomic.Int32
	prompt   string
}

func (c *stubClient) Generate(_ context.Context, prompt string) (string, error) {
	c.calls.Add(1)
	c.prompt = prompt
	return c.response, c.err
}

type memDictations struct {
	mu      sync.Mutex
	items   map[int64]*models.Dictation
	nextID  int64
	failGet bool
}

func newMemDictations(seed ...models.Dictation) *memDictations {
	m := &memDictations{items: map[int64]*models.Dictation{}}
	for i := range seed {
		d := seed[i]
		m.items[d.ID] = &d
		if d.ID > m.nextID {
			m.nextID = d.ID
		}
	}
	return m
}

func (m *memDictations) GetByID(_ context.Context, id int64) (*models.Dictation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("db down")
	}
	d, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memDictations) Create(_ context.Context, d *models.Dictation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	cp := *d
	m.items[d.ID] = &cp
	return d.ID, nil
}

func (m *memDictations) List(_ context.Context, filter repository.DictationFilter) ([]models.Dictation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Dictation{}
	for _, d := range m.items {
		if filter.PublicOnly && !d.IsPublic {
			continue
		}
		if filter.Difficulty != "" && d.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *memDictations) UpdateAudioURL(_ context.Context, id int64, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return errors.New("not found")
	}
	d.AudioURL = &url
	return nil
}

type memAttempts struct {
	mu       sync.Mutex
	items    []models.Attempt
	failSave bool
}

func (m *memAttempts) Create(_ context.Context, a *models.Attempt) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return 0, errors.New("disk full")
	}
	a.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *a)
	return a.ID, nil
}

func (m *memAttempts) GetByID(_ context.Context, id int64) (*models.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			a := m.items[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAttempts) ListByDictation(_ context.Context, dictationID int64, limit int) ([]models.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Attempt{}
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].DictationID == dictationID {
			out = append(out, m.items[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type progressCall struct {
	userID, dictationID int64
	score               float64
}

type memProgress struct {
	mu    sync.Mutex
	calls []progressCall
	err   error
}

func (m *memProgress) Record(_ context.Context, userID, dictationID int64, score float64, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, progressCall{userID, dictationID, score})
	return m.err
}

func (m *memProgress) ListForUser(_ context.Context, userID int64) ([]models.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserProgress{}
	for _, c := range m.calls {
		if c.userID == userID {
			out = append(out, models.UserProgress{UserID: c.userID, DictationID: c.dictationID, BestScore: c.score})
		}
	}
	return out, m.err
}

type stubSynth struct {
	data []byte
	err  error
}

func (s *stubSynth) Synthesize(context.Context, string) ([]byte, error) {
	return s.data, s.err
}

type memAudioStore struct {
	saved map[string][]byte
}

func (s *memAudioStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[name] = data
	return "/media/" + name, nil
}
