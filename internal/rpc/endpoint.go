package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chainscope/internal/micheline"
)

// BlockHeader is the subset of a head header the clients need.
type BlockHeader struct {
	Protocol  string `json:"protocol"`
	ChainID   string `json:"chain_id"`
	Hash      string `json:"hash"`
	Level     int64  `json:"level"`
	Timestamp string `json:"timestamp"`
}

// Endpoint is one node-specific client. The fallback client fans calls
// across an ordered list of these.
type Endpoint interface {
	BaseURL() string
	BlockHeader(ctx context.Context) (BlockHeader, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
	Counter(ctx context.Context, address string) (*big.Int, error)
	ContractStorage(ctx context.Context, contract string) (micheline.Node, error)
	RunOperation(ctx context.Context, operation interface{}) (json.RawMessage, error)
	InjectOperation(ctx context.Context, signedBytes string) (string, error)
}

// httpEndpoint talks to a single node over its REST RPC.
type httpEndpoint struct {
	base   string
	client *http.Client
}

// NewHTTPEndpoint builds an endpoint client for a node base URL.
func NewHTTPEndpoint(baseURL string, client *http.Client) Endpoint {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &httpEndpoint{base: strings.TrimRight(baseURL, "/"), client: client}
}

func (e *httpEndpoint) BaseURL() string {
	return e.base
}

func (e *httpEndpoint) BlockHeader(ctx context.Context) (BlockHeader, error) {
	var header BlockHeader
	err := e.get(ctx, "/chains/main/blocks/head/header", &header)
	return header, err
}

func (e *httpEndpoint) Balance(ctx context.Context, address string) (*big.Int, error) {
	return e.bigIntField(ctx, fmt.Sprintf("/chains/main/blocks/head/context/contracts/%s/balance", url.PathEscape(address)))
}

func (e *httpEndpoint) Counter(ctx context.Context, address string) (*big.Int, error) {
	return e.bigIntField(ctx, fmt.Sprintf("/chains/main/blocks/head/context/contracts/%s/counter", url.PathEscape(address)))
}

func (e *httpEndpoint) ContractStorage(ctx context.Context, contract string) (micheline.Node, error) {
	// Normalized storage carries field annotations, which the pair
	// builders rely on.
	path := fmt.Sprintf("/chains/main/blocks/head/context/contracts/%s/storage/normalized", url.PathEscape(contract))
	var node micheline.Node
	err := e.post(ctx, path, map[string]string{"unparsing_mode": "Readable"}, &node)
	return node, err
}

func (e *httpEndpoint) RunOperation(ctx context.Context, operation interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	err := e.post(ctx, "/chains/main/blocks/head/helpers/scripts/run_operation", operation, &result)
	if err != nil {
		return nil, err
	}
	// Run results report rejections with HTTP 200; surface embedded
	// error identifiers so classification can see them.
	if ids := failedOperationIDs(result); len(ids) > 0 {
		return result, &OperationError{IDs: ids}
	}
	return result, nil
}

func (e *httpEndpoint) InjectOperation(ctx context.Context, signedBytes string) (string, error) {
	var hash string
	err := e.post(ctx, "/injection/operation?chain=main", signedBytes, &hash)
	return hash, err
}

func (e *httpEndpoint) bigIntField(ctx context.Context, path string) (*big.Int, error) {
	var text string
	if err := e.get(ctx, path, &text); err != nil {
		return nil, err
	}
	value, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("rpc %s: invalid numeric response %q", e.base, text)
	}
	return value, nil
}

func (e *httpEndpoint) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return e.do(req, out)
}

func (e *httpEndpoint) post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return e.do(req, out)
}

func (e *httpEndpoint) do(req *http.Request, out interface{}) error {
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPStatusError{Status: resp.StatusCode, URL: req.URL.String(), Body: body}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", e.base, err)
	}
	return nil
}

// failedOperationIDs pulls error ids out of a run_operation result.
// Only ids under "errors" arrays count: a successful result carries no
// error objects, and unrelated "id" fields must not trip rejection.
func failedOperationIDs(result json.RawMessage) []string {
	var parsed interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil
	}
	var ids []string
	collectFailedIDs(parsed, &ids)
	return ids
}

func collectFailedIDs(node interface{}, ids *[]string) {
	switch typed := node.(type) {
	case map[string]interface{}:
		if errs, ok := typed["errors"].([]interface{}); ok {
			for _, item := range errs {
				if obj, ok := item.(map[string]interface{}); ok {
					if id, ok := obj["id"].(string); ok {
						*ids = append(*ids, id)
					}
				}
			}
		}
		for _, value := range typed {
			collectFailedIDs(value, ids)
		}
	case []interface{}:
		for _, item := range typed {
			collectFailedIDs(item, ids)
		}
	}
}
