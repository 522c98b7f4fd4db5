// Package audio turns dictation texts into narration files.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ebenezer-Bakouan/backend/internal/config"
)

// ErrNarrationDisabled is returned by New when TTS_PROVIDER is none.
var ErrNarrationDisabled = errors.New("narration disabled")

// Synthesizer renders French text as MP3 audio read at a slow pace.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// NewSynthesizer builds the synthesizer named in cfg.TTSProvider.
func NewSynthesizer(ctx context.Context, cfg *config.Config) (Synthesizer, error) {
	switch strings.ToLower(cfg.TTSProvider) {
	case "google-cloud":
		s, err := NewCloudSynthesizer(ctx, cfg.TTSVoice)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "translate", "":
		return NewTranslateSynthesizer(), nil
	case "none":
		return nil, ErrNarrationDisabled
	default:
		return nil, fmt.Errorf("unsupported tts provider: %s", cfg.TTSProvider)
	}
}

// splitText cuts text into chunks of at most limit runes, breaking on
// spaces. A single word longer than limit is cut mid-word.
func splitText(text string, limit int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}
		if len(current) > 0 && len(current)+1+len(w) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	flush()
	return chunks
}
