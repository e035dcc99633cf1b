package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

type capturingChat struct {
	lastReq openai.ChatCompletionRequest
	content string
	err     error
}

func (c *capturingChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.lastReq = req
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.content},
		}},
	}, nil
}

func TestOpenAIProvider_SendsPromptAsSingleUserMessage(t *testing.T) {
	cc := &capturingChat{content: "  Project Type:\n* Web app\n"}
	p := &OpenAIProvider{Inner: cc, Model: "test-model"}
	out, err := p.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "  Project Type:\n* Web app\n" {
		t.Fatalf("response must be returned verbatim, got %q", out)
	}
	if cc.lastReq.Model != "test-model" || len(cc.lastReq.Messages) != 1 {
		t.Fatalf("unexpected request: %+v", cc.lastReq)
	}
	if m := cc.lastReq.Messages[0]; m.Role != openai.ChatMessageRoleUser || m.Content != "the prompt" {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestOpenAIProvider_EmptyContentIsGenerationError(t *testing.T) {
	p := &OpenAIProvider{Inner: &capturingChat{content: " \n "}, Model: "m"}
	if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestOpenAIProvider_ErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, ErrAuth},
		{"forbidden request", &openai.RequestError{HTTPStatusCode: http.StatusForbidden, Err: errors.New("nope")}, ErrAuth},
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, ErrGeneration},
		{"transport", errors.New("connection refused"), ErrGeneration},
	}
	for _, tc := range cases {
		p := &OpenAIProvider{Inner: &capturingChat{err: tc.err}, Model: "m"}
		_, err := p.Generate(context.Background(), "x")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

// The real go-openai client against a local OpenAI-compatible endpoint.
func TestOpenAIProvider_AgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Overview:\nBuild a web app."}},
			},
		})
	}))
	defer srv.Close()

	c, err := New(context.Background(), Options{Provider: "openai", APIKey: "secret", Model: "m", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Overview:\nBuild a web app." {
		t.Fatalf("unexpected output %q", out)
	}

	bad, err := New(context.Background(), Options{Provider: "openai", APIKey: "wrong", Model: "m", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := bad.Generate(context.Background(), "hi"); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth for rejected key, got %v", err)
	}
}

type fakeGemini struct {
	model  string
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func geminiText(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: s}}},
		}},
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	f := &fakeGemini{resp: geminiText("Project Type:\n* Mobile")}
	p := &GeminiProvider{Models: f, Model: "gemini-test"}
	out, err := p.Generate(context.Background(), "question: answer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Project Type:\n* Mobile" {
		t.Fatalf("unexpected output %q", out)
	}
	if f.model != "gemini-test" || f.prompt != "question: answer" {
		t.Fatalf("unexpected call model=%q prompt=%q", f.model, f.prompt)
	}
}

func TestGeminiProvider_ErrorKinds(t *testing.T) {
	p := &GeminiProvider{Models: &fakeGemini{err: genai.APIError{Code: http.StatusForbidden, Message: "API key not valid"}}, Model: "m"}
	if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	p = &GeminiProvider{Models: &fakeGemini{err: genai.APIError{Code: http.StatusInternalServerError, Message: "boom"}}, Model: "m"}
	if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	p = &GeminiProvider{Models: &fakeGemini{resp: &genai.GenerateContentResponse{}}, Model: "m"}
	if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty candidates, got %v", err)
	}
}

func TestNew_MissingKeyIsAuthError(t *testing.T) {
	for _, provider := range []string{"", "gemini", "openai"} {
		_, err := New(context.Background(), Options{Provider: provider, Model: "m"})
		if !errors.Is(err, ErrAuth) {
			t.Fatalf("provider %q: expected ErrAuth, got %v", provider, err)
		}
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "carrier-pigeon", APIKey: "k"})
	if err == nil || errors.Is(err, ErrAuth) {
		t.Fatalf("expected plain configuration error, got %v", err)
	}
}
