package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/newsbrief"
	"github.com/gorilla/mux"
)

// MessagePath is the route page receivers are served on.
const MessagePath = "/pages/message"

// AgentRequest is the body of a message delivered over HTTP.
type AgentRequest struct {
	URL    string `json:"url"`
	Action string `json:"action"`
}

// agentError is returned by the agent when no response could be produced.
type agentError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// AgentHandler serves a newsbrief.PageMessenger over HTTP so that the
// receiver can run on a different host than the coordinator, e.g. next to
// a headless browser.
type AgentHandler struct {
	router    *mux.Router
	messenger newsbrief.PageMessenger
}

// NewAgentHandler creates a new AgentHandler delegating to messenger.
func NewAgentHandler(messenger newsbrief.PageMessenger) *AgentHandler {
	h := &AgentHandler{
		router:    mux.NewRouter(),
		messenger: messenger,
	}
	h.router.HandleFunc(MessagePath, h.handleMessage).Methods(http.MethodPost)
	h.router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	return h
}

// ServeHTTP implements http.Handler.
func (h *AgentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *AgentHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AgentHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req AgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAgentError(w, newsbrief.Errorf(newsbrief.EINVALID, "invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeAgentError(w, newsbrief.Errorf(newsbrief.EINVALID, "page URL required"))
		return
	}

	resp, err := h.messenger.SendMessage(r.Context(), req.URL, newsbrief.Message{Action: req.Action})
	if err != nil {
		writeAgentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAgentError(w http.ResponseWriter, err error) {
	code := newsbrief.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case newsbrief.EINVALID:
		status = http.StatusBadRequest
	case newsbrief.ENORECEIVER:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, agentError{Code: code, Error: newsbrief.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Ensure AgentClient implements newsbrief.PageMessenger at compile time.
var _ newsbrief.PageMessenger = (*AgentClient)(nil)

// AgentClient delivers messages to an AgentHandler.
type AgentClient struct {
	baseURL string
	client  *http.Client
}

// NewAgentClient creates a new AgentClient for the agent at baseURL.
// A zero timeout falls back to DefaultFetchTimeout.
func NewAgentClient(baseURL string, timeout time.Duration) *AgentClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &AgentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SendMessage posts msg for pageURL to the agent.
// Transport failures are reported as ENORECEIVER.
func (c *AgentClient) SendMessage(ctx context.Context, pageURL string, msg newsbrief.Message) (*newsbrief.ExtractResponse, error) {
	payload, err := json.Marshal(AgentRequest{URL: pageURL, Action: msg.Action})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MessagePath, bytes.NewReader(payload))
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.EINVALID, "invalid agent URL: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.ENORECEIVER, "Could not establish connection. Receiving end does not exist. (%v)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ae agentError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err != nil || ae.Code == "" {
			return nil, newsbrief.Errorf(newsbrief.ENORECEIVER, "agent responded with %d", resp.StatusCode)
		}
		return nil, newsbrief.Errorf(ae.Code, "%s", ae.Error)
	}

	var out newsbrief.ExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, newsbrief.Errorf(newsbrief.ENORECEIVER, "invalid agent response: %v", err)
	}
	return &out, nil
}
