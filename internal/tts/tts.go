// Package tts synthesizes the narration track. Synthesizer is the seam the
// pipeline depends on; Google implements it with Cloud Text-to-Speech.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/natefinch/atomic"
	"google.golang.org/api/option"
)

// MaxRequestBytes is the Text-to-Speech per-request input limit.
const MaxRequestBytes = 5000

// ErrEmptyText is returned when there is nothing to say.
var ErrEmptyText = errors.New("narration text is empty")

// Voice selects the voice and MP3 output settings.
type Voice struct {
	Language     string
	Name         string
	SpeakingRate float64
	SampleRateHz int
}

// Synthesizer turns text into MP3 bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// Google is a Synthesizer backed by Cloud Text-to-Speech.
type Google struct {
	client *texttospeech.Client
}

// NewGoogle authenticates with the service-account key at keyFile.
func NewGoogle(ctx context.Context, keyFile string) (*Google, error) {
	c, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(keyFile))
	if err != nil {
		return nil, fmt.Errorf("tts client: %w", err)
	}
	return &Google{client: c}, nil
}

// Close releases the gRPC connection.
func (g *Google) Close() error { return g.client.Close() }

// Synthesize requests one MP3 per chunk of at most MaxRequestBytes and
// concatenates them. MP3 frames are self-delimiting, so the joined bytes
// play as one stream.
func (g *Google) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	chunks := SplitText(text, MaxRequestBytes)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	var out bytes.Buffer
	for i, chunk := range chunks {
		resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: voice.Language,
				Name:         voice.Name,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding:   texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:    voice.SpeakingRate,
				SampleRateHertz: int32(voice.SampleRateHz),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out.Write(resp.GetAudioContent())
	}
	return out.Bytes(), nil
}

// WriteNarration synthesizes text and atomically writes the MP3 to path.
func WriteNarration(ctx context.Context, s Synthesizer, text string, voice Voice, path string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	audio, err := s.Synthesize(ctx, text, voice)
	if err != nil {
		return err
	}
	if len(audio) == 0 {
		return errors.New("synthesizer returned no audio")
	}
	if err := atomic.WriteFile(path, bytes.NewReader(audio)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SplitText breaks text into chunks of at most limit bytes. Breaks prefer
// line ends, then sentence ends, then spaces; a word longer than limit is
// cut at a rune boundary. Chunks are trimmed and never empty.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := breakPoint(text[:limit+1])
		if cut <= 0 {
			cut = runeFloor(text, limit)
		}
		if cut <= 0 {
			// no rune start in the window (invalid UTF-8)
			cut = limit
		}
		if c := strings.TrimSpace(text[:cut]); c != "" {
			chunks = append(chunks, c)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// breakPoint returns the byte offset just after the last preferred break in
// window, or 0 when there is none.
func breakPoint(window string) int {
	if i := strings.LastIndexByte(window, '\n'); i > 0 {
		return i + 1
	}
	best := 0
	for _, sep := range []string{". ", "! ", "? ", "; "} {
		if i := strings.LastIndex(window, sep); i > 0 && i+1 > best {
			best = i + 1
		}
	}
	if best > 0 {
		return best
	}
	if i := strings.LastIndexByte(window, ' '); i > 0 {
		return i
	}
	return 0
}

// runeFloor returns the largest offset ≤ n that starts a rune.
func runeFloor(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
