package nlu

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/orderdesk/concierge/common/retry"
)

const (
	defaultAPIVersion = "2024-11-01"
	defaultTimeout    = 15 * time.Second
)

// ErrMalformedResponse is returned when the CLU service answers with a body
// that does not match the expected envelope. Callers should treat the turn
// as failed and surface a transport-error message to the user.
var ErrMalformedResponse = errors.New("nlu: malformed response from CLU service")

// cluResponseSchema is the JSON Schema the raw CLU response is validated
// against before any field of it is trusted.
//
//go:embed clu_response_schema.json
var cluResponseSchema string

// AzureConfig configures the Azure CLU provider.
type AzureConfig struct {
	// Endpoint is the Azure Language resource endpoint, e.g.
	// "https://<resource>.cognitiveservices.azure.com".
	Endpoint string
	// Key is the Ocp-Apim-Subscription-Key value.
	Key string
	// Project is the CLU project name.
	Project string
	// Deployment is the CLU deployment name.
	Deployment string
	// APIVersion defaults to 2024-11-01 when empty.
	APIVersion string
	// Timeout is the per-request HTTP timeout. Defaults to 15 s.
	Timeout time.Duration
	// Retry controls backoff for transient failures. Zero values fall back
	// to retry.DefaultConfig.
	Retry retry.Config
}

// AzureClient implements Provider against the Azure Conversational Language
// Understanding ":analyze-conversations" endpoint. It is safe for
// concurrent use.
type AzureClient struct {
	cfg    AzureConfig
	client *http.Client
	schema *jsonschema.Schema
}

// NewAzure validates cfg and returns a ready AzureClient.
func NewAzure(cfg AzureConfig) (*AzureClient, error) {
	if cfg.Endpoint == "" || cfg.Key == "" || cfg.Project == "" || cfg.Deployment == "" {
		return nil, fmt.Errorf("nlu: endpoint, key, project and deployment are all required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	schema, err := jsonschema.CompileString("clu_response_schema.json", cluResponseSchema)
	if err != nil {
		return nil, fmt.Errorf("nlu: compile response schema: %w", err)
	}

	return &AzureClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
	}, nil
}

// --- CLU wire types ----------------------------------------------------------

type cluConversationItem struct {
	ID            string `json:"id"`
	ParticipantID string `json:"participantId"`
	Modality      string `json:"modality"`
	Language      string `json:"language"`
	Text          string `json:"text"`
}

type cluRequest struct {
	Kind          string `json:"kind"`
	AnalysisInput struct {
		ConversationItem cluConversationItem `json:"conversationItem"`
	} `json:"analysisInput"`
	Parameters struct {
		ProjectName     string `json:"projectName"`
		DeploymentName  string `json:"deploymentName"`
		StringIndexType string `json:"stringIndexType"`
	} `json:"parameters"`
}

type cluResponse struct {
	Result struct {
		Prediction struct {
			TopIntent string   `json:"topIntent"`
			Entities  []Entity `json:"entities"`
		} `json:"prediction"`
	} `json:"result"`
}

// statusError marks an HTTP failure so the retry predicate can distinguish
// transient server trouble from permanent client errors.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("nlu: CLU service returned HTTP %d: %.200s", e.code, e.body)
}

// retryable reports whether an Analyze error is worth retrying: network
// errors and 429/5xx responses are; other HTTP statuses are not.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return !errors.Is(err, ErrMalformedResponse)
}

// Analyze sends the utterance to the CLU endpoint and returns the decoded
// prediction. Transient failures are retried with exponential backoff.
func (c *AzureClient) Analyze(ctx context.Context, query string) (*Result, error) {
	payload := cluRequest{Kind: "Conversation"}
	payload.AnalysisInput.ConversationItem = cluConversationItem{
		ID:            "1",
		ParticipantID: "User",
		Modality:      "text",
		Language:      "en-us",
		Text:          query,
	}
	payload.Parameters.ProjectName = c.cfg.Project
	payload.Parameters.DeploymentName = c.cfg.Deployment
	payload.Parameters.StringIndexType = "Utf16CodeUnit"

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("nlu: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/language/:analyze-conversations?api-version=%s",
		c.cfg.Endpoint, url.QueryEscape(c.cfg.APIVersion))

	cfg := c.cfg.Retry
	cfg.ShouldRetry = retryable

	var result *Result
	err = retry.Do(ctx, cfg, func() error {
		var attemptErr error
		result, attemptErr = c.analyzeOnce(ctx, endpoint, data)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// analyzeOnce performs a single HTTP round trip.
func (c *AzureClient) analyzeOnce(ctx context.Context, endpoint string, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nlu: create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nlu: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nlu: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	// Validate the envelope before decoding into typed structs, so a
	// misbehaving upstream cannot smuggle unexpected shapes into the core.
	var raw any
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}
	if err := c.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var decoded cluResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &Result{
		TopIntent: Intent(decoded.Result.Prediction.TopIntent),
		Entities:  decoded.Result.Prediction.Entities,
	}, nil
}
