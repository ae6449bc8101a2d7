package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// RemoteConfig points the remote tagger at an NLP tool served behind an MCP proxy.
type RemoteConfig struct {
	ProxyURL string
	APIKey   string
	Service  string
	Tool     string
	Timeout  time.Duration
}

// RemoteTagger calls a tagging tool over the proxy's JSON-RPC endpoint. The
// tool is expected to answer with {"tokens":[{"text","pos","dep"}]}; pos may
// be a universal or a Penn Treebank tag.
type RemoteTagger struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	service    string
	tool       string
}

func NewRemoteTagger(cfg RemoteConfig) *RemoteTagger {
	proxyURL := cfg.ProxyURL
	if proxyURL == "" {
		proxyURL = os.Getenv("MCP_PROXY_URL")
	}
	if proxyURL == "" {
		proxyURL = "http://mcp-compose-http-proxy:9876"
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("MCP_PROXY_API_KEY")
	}

	service := cfg.Service
	if service == "" {
		service = "nlp-tagger"
	}
	tool := cfg.Tool
	if tool == "" {
		tool = "tag_text"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RemoteTagger{
		httpClient: &http.Client{Timeout: timeout},
		proxyURL:   strings.TrimRight(proxyURL, "/"),
		apiKey:     apiKey,
		service:    service,
		tool:       tool,
	}
}

type remoteTokens struct {
	Tokens []struct {
		Text string `json:"text"`
		POS  string `json:"pos"`
		Dep  string `json:"dep"`
	} `json:"tokens"`
}

func (r *RemoteTagger) Tag(ctx context.Context, text string) (Doc, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	out, err := r.callGateway(ctx, r.tool, map[string]interface{}{"text": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagger, err)
	}

	var resp remoteTokens
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode tokens: %v", ErrTagger, err)
	}

	doc := make(Doc, 0, len(resp.Tokens))
	for _, t := range resp.Tokens {
		doc = append(doc, Token{
			Text: t.Text,
			POS:  NormalizePOS(t.POS),
			Dep:  NormalizeDep(t.Dep),
		})
	}
	return doc, nil
}

func (r *RemoteTagger) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s", r.proxyURL, r.service)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var mcpResponse map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&mcpResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if rpcErr, ok := mcpResponse["error"].(map[string]interface{}); ok {
		return "", fmt.Errorf("tool error: %v", rpcErr["message"])
	}

	// Extract the result content
	if result, ok := mcpResponse["result"].(map[string]interface{}); ok {
		if content, ok := result["content"].([]interface{}); ok && len(content) > 0 {
			if textContent, ok := content[0].(map[string]interface{}); ok {
				if text, ok := textContent["text"].(string); ok {
					return text, nil
				}
			}
		}
	}

	return "", fmt.Errorf("unexpected response format")
}
