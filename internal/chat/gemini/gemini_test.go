package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateParsesTextAndSources(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
			t.Error("system instruction missing from request")
		}
		if len(req.Tools) == 0 {
			t.Error("grounding enabled but no tools in request")
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "Spend less on snacks."}]},
				"groundingMetadata": {
					"groundingChunks": [
						{"web": {"title": "Budgeting 101", "uri": "https://example.com/budget"}},
						{"web": {"title": "no uri, dropped", "uri": ""}}
					]
				}
			}]
		}`))
	}))
	defer ts.Close()

	c, err := New("test-key", "test-model", ts.URL, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	reply, err := c.Generate(context.Background(), "be nice", "how do I save?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply.Text != "Spend less on snacks." {
		t.Fatalf("text = %q", reply.Text)
	}
	if len(reply.Sources) != 1 {
		t.Fatalf("sources = %d, want 1 (empty URI dropped)", len(reply.Sources))
	}
	if reply.Sources[0].URI != "https://example.com/budget" {
		t.Fatalf("source URI = %q", reply.Sources[0].URI)
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c, _ := New("test-key", "test-model", ts.URL, false)
	if _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer ts.Close()

	c, _ := New("test-key", "test-model", ts.URL, false)
	if _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error on empty candidates")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", "model", "", false); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
