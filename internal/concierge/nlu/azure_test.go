package nlu_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orderdesk/concierge/common/retry"
	"github.com/orderdesk/concierge/internal/concierge/nlu"
)

const validCLUResponse = `{
	"result": {
		"prediction": {
			"topIntent": "CreateOrder",
			"entities": [
				{"category": "Product", "text": "burgers", "offset": 9, "length": 7},
				{"category": "Number", "text": "2", "offset": 7, "length": 1,
					"resolutions": [{"resolutionKind": "NumberResolution", "value": 2}]}
			]
		}
	}
}`

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *nlu.AzureClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := nlu.NewAzure(nlu.AzureConfig{
		Endpoint:   srv.URL,
		Key:        "test-key",
		Project:    "ordering",
		Deployment: "production",
		Retry:      fastRetry(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAzureAnalyzeRequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(validCLUResponse))
	})

	res, err := c.Analyze(context.Background(), "I want 2 burgers")
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/language/:analyze-conversations?api-version=2024-11-01" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("subscription key header = %q", gotKey)
	}
	if gotBody["kind"] != "Conversation" {
		t.Errorf("kind = %v", gotBody["kind"])
	}
	params, _ := gotBody["parameters"].(map[string]any)
	if params["projectName"] != "ordering" || params["deploymentName"] != "production" {
		t.Errorf("parameters = %v", params)
	}
	if params["stringIndexType"] != "Utf16CodeUnit" {
		t.Errorf("stringIndexType = %v", params["stringIndexType"])
	}

	if res.TopIntent != nlu.IntentCreateOrder {
		t.Errorf("top intent = %q", res.TopIntent)
	}
	if len(res.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(res.Entities))
	}
	r, ok := res.Entities[1].Resolution()
	if !ok {
		t.Fatal("number entity missing resolution")
	}
	if v, ok := r.NumberValue(); !ok || v != 2 {
		t.Errorf("number resolution = %v", r.Value)
	}
}

func TestAzureAnalyzeRetriesTransientFailures(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(validCLUResponse))
	})

	res, err := c.Analyze(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if res.TopIntent != nlu.IntentCreateOrder {
		t.Errorf("top intent = %q", res.TopIntent)
	}
}

func TestAzureAnalyzeDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.Analyze(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 for HTTP 401", attempts)
	}
}

func TestAzureAnalyzeRejectsMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"missing prediction", `{"result": {}}`},
		{"topIntent wrong type", `{"result": {"prediction": {"topIntent": 42}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := c.Analyze(context.Background(), "hello")
			if !errors.Is(err, nlu.ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestNewAzureRequiresCredentials(t *testing.T) {
	_, err := nlu.NewAzure(nlu.AzureConfig{Endpoint: "https://x.example.com"})
	if err == nil {
		t.Fatal("expected error for missing key/project/deployment")
	}
}
