package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPNode is a reference Node implementation that POSTs an Envelope to a
// single node URI and decodes the resulting Response: a shared *http.Client
// with a bounded timeout, JSON request/response bodies, errors wrapped with
// fmt.Errorf("...: %w", err).
type HTTPNode struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPNode returns a Node that talks to baseURL.
func NewHTTPNode(baseURL string) *HTTPNode {
	return &HTTPNode{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExecuteMutation POSTs mutation to baseURL and returns the decoded Response.
func (n *HTTPNode) ExecuteMutation(mutation string, variables map[string]interface{}) (*Response, error) {
	return n.execute(mutation, variables)
}

// ExecuteQuery POSTs query to baseURL and returns the decoded Response.
func (n *HTTPNode) ExecuteQuery(query string, variables map[string]interface{}) (*Response, error) {
	return n.execute(query, variables)
}

func (n *HTTPNode) execute(name string, variables map[string]interface{}) (*Response, error) {
	body, err := json.Marshal(Envelope{Query: name, Variables: variables})
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	resp, err := n.httpClient.Post(n.baseURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if resp.StatusCode >= 400 && out.Reason == "" {
		out.Reason = resp.Status
	}
	return &out, nil
}

// TransportError wraps a failure from the transport layer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
