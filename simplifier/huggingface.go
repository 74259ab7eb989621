package simplifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/use-agent/focusmode/models"
)

const hfMinLength = 50

// HuggingFaceProvider calls the Hugging Face Inference API with a
// summarisation model. It sends the bare text, not the chat prompt.
type HuggingFaceProvider struct {
	endpoint   string
	httpClient *http.Client
}

// NewHuggingFaceProvider creates a provider for model under baseURL (for
// example "https://api-inference.huggingface.co/models/").
func NewHuggingFaceProvider(baseURL, model string, httpClient *http.Client) *HuggingFaceProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HuggingFaceProvider{
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(model, "/"),
		httpClient: httpClient,
	}
}

func (p *HuggingFaceProvider) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

// hfLoading is the 503 body returned while a model is being loaded.
type hfLoading struct {
	EstimatedTime *float64 `json:"estimated_time"`
}

func (p *HuggingFaceProvider) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: strings.TrimSpace(req.Text),
		Parameters: hfParameters{
			MaxLength: req.Profile.MaxLength(),
			MinLength: hfMinLength,
			DoSample:  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("huggingface: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("huggingface: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", loadingError(respBody)
	case resp.StatusCode != http.StatusOK:
		return "", statusError(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return parseHFOutput(respBody)
}

// loadingError reports a model that is still starting up.
func loadingError(body []byte) *ProviderError {
	var loading hfLoading
	if err := json.Unmarshal(body, &loading); err == nil && loading.EstimatedTime != nil {
		return &ProviderError{
			Kind:      models.ErrKindTimeout,
			Message:   "Model is loading (cold start). Estimated wait: " + strconv.FormatFloat(*loading.EstimatedTime, 'f', -1, 64) + "s. Please try again.",
			ColdStart: true,
		}
	}
	return &ProviderError{Kind: models.ErrKindTimeout, Message: msgColdStart, ColdStart: true}
}

// parseHFOutput accepts the list shapes returned by summarisation and
// generation models. Any other JSON value is returned as text.
func parseHFOutput(body []byte) (string, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &ProviderError{Kind: models.ErrKindAPI, Message: fmt.Sprintf("%s: %v", msgParseError, err), Err: err}
	}

	list, ok := data.([]any)
	if !ok {
		return strings.TrimSpace(string(body)), nil
	}
	if len(list) == 0 {
		return "", &ProviderError{Kind: models.ErrKindAPI, Message: msgParseError + ": empty result"}
	}

	if first, ok := list[0].(map[string]any); ok {
		for _, key := range []string{"summary_text", "generated_text"} {
			if text, ok := first[key].(string); ok {
				return strings.TrimSpace(text), nil
			}
		}
	}
	raw, _ := json.Marshal(list[0])
	return strings.TrimSpace(string(raw)), nil
}
