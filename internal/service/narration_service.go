package service

import (
	"context"

	"github.com/Ebenezer-Bakouan/backend/internal/audio"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/utils"
)

// AudioURLUpdater attaches a narration to a stored dictation.
type AudioURLUpdater interface {
	UpdateAudioURL(ctx context.Context, id int64, url string) error
}

// NarrationService turns dictation text into stored audio
type NarrationService struct {
	synth      audio.Synthesizer
	store      audio.Store
	dictations AudioURLUpdater
}

// NewNarrationService creates a narration service. A nil synthesizer
// disables narration.
func NewNarrationService(synth audio.Synthesizer, store audio.Store, dictations AudioURLUpdater) *NarrationService {
	return &NarrationService{synth: synth, store: store, dictations: dictations}
}

// Render synthesizes text and stores it, returning the public URL
func (s *NarrationService) Render(ctx context.Context, text string) (string, error) {
	if s == nil || s.synth == nil || s.store == nil {
		return "", audio.ErrNarrationDisabled
	}

	data, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return "", utils.WrapIfNotNil(err, "synthesize")
	}

	url, err := s.store.Save(ctx, audio.NewFileName(), data)
	return url, utils.WrapIfNotNil(err, "store audio")
}

// Narrate renders a stored dictation's text and saves the URL on it
func (s *NarrationService) Narrate(ctx context.Context, d *models.Dictation) (string, error) {
	url, err := s.Render(ctx, d.Text)
	if err != nil {
		return "", err
	}
	if err := s.dictations.UpdateAudioURL(ctx, d.ID, url); err != nil {
		return "", utils.WrapIfNotNil(err, "update dictation")
	}
	d.AudioURL = &url
	return url, nil
}
