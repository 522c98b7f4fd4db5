package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/logging"
)

const (
	translateTTSURL   = "https://translate.google.com/translate_tts"
	ttsRequestTimeout = 10 * time.Second
	// translate_tts refuses longer queries
	translateChunkLimit = 200
	// ttsspeed used for dictation, below the default reading pace
	slowSpeed = "0.24"
)

// TranslateSynthesizer uses the Google Translate text-to-speech endpoint.
// It needs no API key.
type TranslateSynthesizer struct {
	baseURL string
	client  *http.Client
}

// NewTranslateSynthesizer creates a synthesizer on the public endpoint.
func NewTranslateSynthesizer() *TranslateSynthesizer {
	return &TranslateSynthesizer{
		baseURL: translateTTSURL,
		client:  &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Synthesize fetches each chunk of text and concatenates the MP3 frames.
func (s *TranslateSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := splitText(text, translateChunkLimit)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	logging.NewLogger(ctx).Debugf("translate tts: %d chunks", len(chunks))

	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := s.fetchChunk(ctx, chunk, i, len(chunks), &audio); err != nil {
			return nil, fmt.Errorf("failed to generate audio: %w", err)
		}
	}
	return audio.Bytes(), nil
}

func (s *TranslateSynthesizer) fetchChunk(ctx context.Context, chunk string, idx, total int, out io.Writer) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", chunk)
	params.Set("tl", "fr")
	params.Set("client", "tw-ob")
	params.Set("ttsspeed", slowSpeed)
	params.Set("idx", strconv.Itoa(idx))
	params.Set("total", strconv.Itoa(total))
	params.Set("textlen", strconv.Itoa(len([]rune(chunk))))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Google rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	return nil
}
