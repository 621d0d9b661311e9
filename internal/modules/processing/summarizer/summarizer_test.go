package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/quicky-ai/quicky-core/internal/config"
)

type fakeCompleter struct {
	reply  string
	err    error
	panics bool
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.panics {
		panic("provider exploded")
	}
	return f.reply, f.err
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatNotes, ParseFormat("notes"))
	assert.Equal(t, FormatMindmap, ParseFormat("  MindMap "))
	assert.Equal(t, FormatBullets, ParseFormat(""))
	assert.Equal(t, FormatBullets, ParseFormat("haiku"))
}

func TestStaticGeneratorIgnoresInput(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	for _, f := range Formats {
		a := s.Generate(ctx, "first text", f)
		b := s.Generate(ctx, "completely different text", f)
		assert.Equal(t, a, b, f)
		assert.Equal(t, Canned(f), a)
	}
	assert.Equal(t, Canned(FormatBullets), s.Generate(ctx, "x", Format("unknown")))
}

func TestCannedTextsAreDistinct(t *testing.T) {
	seen := map[string]Format{}
	for _, f := range Formats {
		text := Canned(f)
		require.NotEmpty(t, strings.TrimSpace(text))
		_, dup := seen[text]
		assert.False(t, dup, "format %s shares canned text", f)
		seen[text] = f
	}
	assert.Contains(t, Canned(FormatMindmap), "AI Summarization Tool")
	assert.Contains(t, Canned(FormatSlides), "Slide 1: AI-Powered Summarization")
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("The quick brown fox 100%", FormatKeywords)
	assert.Contains(t, p, "extract the most important keywords")
	assert.Contains(t, p, "The quick brown fox 100%")
	assert.True(t, strings.HasSuffix(p, "Keywords:\n"))

	assert.Equal(t, BuildPrompt("x", FormatBullets), BuildPrompt("x", Format("nope")))
}

func TestProviderReplyIsUsed(t *testing.T) {
	fc := &fakeCompleter{reply: "  • generated  \n"}
	s := New(fc, nil)

	assert.Equal(t, "• generated", s.Generate(context.Background(), "source text", FormatSlides))
	assert.Contains(t, fc.prompt, "slide-style content")
	assert.Contains(t, fc.prompt, "source text")
	assert.True(t, s.UsesProvider())
}

func TestProviderFailureFallsBack(t *testing.T) {
	s := New(&fakeCompleter{err: errors.New("429 from upstream")}, nil)
	assert.Equal(t, Canned(FormatNotes), s.Generate(context.Background(), "x", FormatNotes))

	s = New(&fakeCompleter{reply: "   "}, nil)
	assert.Equal(t, Canned(FormatNotes), s.Generate(context.Background(), "x", FormatNotes))
}

func TestPanicYieldsApology(t *testing.T) {
	s := New(&fakeCompleter{panics: true}, nil)
	assert.Equal(t, Apology, s.Generate(context.Background(), "x", FormatBullets))
}

func TestOpenAICompatibleCompleter(t *testing.T) {
	var got struct {
		Model    string              `json:"model"`
		Messages []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-local", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"local summary"}}]}`))
	}))
	defer srv.Close()

	c, err := NewProviderCompleter(appcfg.AIProvider{
		Type:         "openai-compatible",
		APIKey:       "sk-local",
		Endpoint:     srv.URL + "/v1/",
		DefaultModel: "llama3",
	})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "prompt body")
	require.NoError(t, err)
	assert.Equal(t, "local summary", out)
	assert.Equal(t, "llama3", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "prompt body", got.Messages[1]["content"])
}

func TestOpenAICompatibleCompleterError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	c, err := NewProviderCompleter(appcfg.AIProvider{Type: "openai_compatible", APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNewProviderCompleterValidation(t *testing.T) {
	_, err := NewProviderCompleter(appcfg.AIProvider{Type: "openai"})
	assert.Error(t, err)

	_, err = NewProviderCompleter(appcfg.AIProvider{Type: "gemini", APIKey: "k"})
	assert.Error(t, err)

	c, err := NewProviderCompleter(appcfg.AIProvider{Type: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, c.model)
}

func TestNormalizeEndpoints(t *testing.T) {
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com"))
	assert.Equal(t, "https://api.example.com/v1", normalizeOpenAIBaseURL("https://api.example.com/v1/"))
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "http://localhost:11434", normalizeOpenAICompatibleEndpoint("http://localhost:11434/v1"))
}
