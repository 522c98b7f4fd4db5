package audio

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

const (
	frenchLanguageCode = "fr-FR"
	defaultCloudVoice  = "fr-FR-Standard-A"
	dictationRate      = 0.8
)

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// CloudSynthesizer uses Google Cloud Text-to-Speech with application
// default credentials.
type CloudSynthesizer struct {
	voice      string
	synthesize synthesizeFunc
	close      func() error
}

// NewCloudSynthesizer opens a Text-to-Speech client for the given voice.
func NewCloudSynthesizer(ctx context.Context, voice string) (*CloudSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return newCloudSynthesizer(voice, func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
		return client.SynthesizeSpeech(ctx, req)
	}, client.Close), nil
}

func newCloudSynthesizer(voice string, fn synthesizeFunc, closeFn func() error) *CloudSynthesizer {
	if voice == "" {
		voice = defaultCloudVoice
	}
	return &CloudSynthesizer{voice: voice, synthesize: fn, close: closeFn}
}

// Synthesize renders text in one request.
func (s *CloudSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: frenchLanguageCode,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  dictationRate,
		},
	}

	resp, err := s.synthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("SynthesizeSpeech: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("SynthesizeSpeech: empty audio")
	}
	return resp.GetAudioContent(), nil
}

// Close releases the underlying client.
func (s *CloudSynthesizer) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
