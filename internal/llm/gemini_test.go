package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected key query parameter, got %q", r.URL.Query().Get("key"))
		}

		var apiReq geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(apiReq.Contents) != 1 || !strings.HasPrefix(apiReq.Contents[0].Parts[0].Text, "Analyze the following text") {
			t.Errorf("Unexpected contents: %+v", apiReq.Contents)
		}
		if apiReq.SystemInstruction == nil {
			t.Error("Expected system instruction")
		}
		if apiReq.GenerationConfig.Temperature != DetectTemperature {
			t.Errorf("Expected temperature %v, got %v", DetectTemperature, apiReq.GenerationConfig.Temperature)
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"ai_probability\": 0.7, \"explanation\": \"formal\"}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"totalTokenCount": 33}
		}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Generate(context.Background(), DetectRequest("Thus it works."))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"ai_probability": 0.7, "explanation": "formal"}` {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Model != defaultGeminiModel {
		t.Errorf("Expected model %s, got %s", defaultGeminiModel, resp.Model)
	}
	if resp.TokensUsed != 33 {
		t.Errorf("Expected 33 tokens, got %d", resp.TokensUsed)
	}
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(Config{})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
}

func TestGeminiProvider_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Generate(context.Background(), DetectRequest("text")); err == nil {
		t.Fatal("Expected error for missing candidates, got nil")
	}
}

func TestGeminiProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), DetectRequest("text"))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "PERMISSION_DENIED") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestGeminiProvider_Generate_RedactsKeyOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "secret-key", BaseURL: baseURL, Timeout: 1})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Generate(context.Background(), DetectRequest("text"))
	if err == nil {
		t.Fatal("Expected connection error, got nil")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("Error leaks the API key: %v", err)
	}
}

func TestGeminiProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1beta/models" && r.URL.Query().Get("key") == "test-key" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	bad, err := NewGeminiProvider(Config{APIKey: "wrong", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	if bad.IsAvailable(context.Background()) {
		t.Error("Expected available to be false for a rejected key")
	}
}
