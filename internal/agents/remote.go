package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

// RemoteHandler invokes an agent hosted behind an HTTP endpoint. Requests
// POST the task envelope as JSON; responses carry {success, data, error}.
type RemoteHandler struct {
	name   string
	url    string
	client *http.Client
	log    *logging.Logger
}

// NewRemoteHandler creates a handler client for the named agent.
func NewRemoteHandler(name, url string, timeout time.Duration, log *logging.Logger) *RemoteHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteHandler{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Sub("agents." + name),
	}
}

// Name returns the agent name.
func (h *RemoteHandler) Name() string { return h.name }

type remoteResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Invoke POSTs the request to the agent endpoint. Transport failures,
// non-2xx statuses, and success:false responses all become errors carrying
// the remote status where one exists.
func (h *RemoteHandler) Invoke(ctx context.Context, req Request) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling agent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating agent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoking %s agent: %w", h.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s agent response: %w", h.name, err)
	}

	h.log.Debug().
		Str("task", req.Task).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("agent invoked")

	var decoded remoteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return nil, domain.Errorf(resp.StatusCode, "%s agent: %s", h.name, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("parsing %s agent response: %w", h.name, err)
	}

	if resp.StatusCode >= 300 || !decoded.Success {
		msg := decoded.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		code := resp.StatusCode
		if code < 300 {
			code = http.StatusBadGateway
		}
		return nil, domain.Errorf(code, "%s agent: %s", h.name, msg)
	}

	return &Result{Agent: h.name, Data: decoded.Data}, nil
}
