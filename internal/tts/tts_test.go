package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "Xin chào", 50, []string{"Xin chào"}},
		{"line break preferred", "one two\nthree four", 12, []string{"one two", "three four"}},
		{"sentence end", "Một hai. Ba bốn năm.", 16, []string{"Một hai.", "Ba bốn năm."}},
		{"space when no sentence", "aaa bbb ccc", 8, []string{"aaa bbb", "ccc"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"invalid utf-8 run", strings.Repeat("\x80", 12), 5, []string{strings.Repeat("\x80", 5), strings.Repeat("\x80", 5), "\x80\x80"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.limit)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("SplitText(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestSplitText_LimitAndRunes(t *testing.T) {
	text := strings.Repeat("Đây là một câu tiếng Việt khá dài. ", 400)
	chunks := SplitText(text, MaxRequestBytes)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > MaxRequestBytes {
			t.Errorf("chunk %d has %d bytes", i, len(c))
		}
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}

	long := strings.Repeat("ạ", 10) // 3 bytes each
	for _, c := range SplitText(long, 7) {
		if !utf8.ValidString(c) || len(c) > 7 {
			t.Errorf("bad chunk %q", c)
		}
	}
}

type fakeSynth struct {
	got   string
	voice Voice
	audio []byte
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, v Voice) ([]byte, error) {
	f.got, f.voice = text, v
	return f.audio, f.err
}

func TestWriteNarration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voiceover.mp3")
	voice := Voice{Language: "vi-VN", Name: "vi-VN-Wavenet-C", SpeakingRate: 1.25, SampleRateHz: 44100}

	s := &fakeSynth{audio: []byte("ID3fake")}
	if err := WriteNarration(context.Background(), s, "Xin chào", voice, path); err != nil {
		t.Fatalf("WriteNarration: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ID3fake" {
		t.Errorf("file = %q, %v", data, err)
	}
	if s.voice != voice || s.got != "Xin chào" {
		t.Errorf("synth called with %q %+v", s.got, s.voice)
	}

	if err := WriteNarration(context.Background(), s, "  ", voice, path); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text: %v", err)
	}
	bad := &fakeSynth{err: errors.New("quota")}
	if err := WriteNarration(context.Background(), bad, "x", voice, path); err == nil {
		t.Error("expected synth error")
	}
	if err := WriteNarration(context.Background(), &fakeSynth{}, "x", voice, path); err == nil {
		t.Error("expected error for empty audio")
	}
}
