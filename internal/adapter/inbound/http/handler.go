package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scenecast/scenecast/internal/domain/session"
	"github.com/scenecast/scenecast/internal/requesthandler"
	"github.com/scenecast/scenecast/pkg/protocol"
)

// maxBodySize limits request bodies to 1 MiB. Control requests are
// small; anything larger is a client bug.
const maxBodySize = 1 << 20

// handleHandshake opens a session. The client presents the control
// password and the protocol version it wants to speak.
func (t *Transport) handleHandshake(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		t.metrics.HandshakesTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req protocol.HandshakeRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			t.metrics.HandshakesTotal.WithLabelValues("error").Inc()
			writeError(w, http.StatusBadRequest, "malformed handshake")
			return
		}
	}

	if err := t.authenticator.Verify(req.Password); err != nil {
		t.metrics.HandshakesTotal.WithLabelValues("auth_failed").Inc()
		t.logger.Warn("handshake authentication failed", "remote_addr", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	sess, err := t.sessions.Create(r.Context(), req.RPCVersion, req.IgnoreNonFatalRequestChecks, r.RemoteAddr)
	if err != nil {
		if errors.Is(err, session.ErrUnsupportedRPCVersion) {
			t.metrics.HandshakesTotal.WithLabelValues("version_mismatch").Inc()
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		t.metrics.HandshakesTotal.WithLabelValues("error").Inc()
		t.logger.Error("session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	t.metrics.HandshakesTotal.WithLabelValues("ok").Inc()
	t.logger.Info("session opened",
		"session_id", sess.ID,
		"rpc_version", sess.RPCVersion,
		"remote_addr", r.RemoteAddr,
	)

	writeJSON(w, http.StatusCreated, protocol.HandshakeResponse{
		SessionID:            sess.ID,
		NegotiatedRPCVersion: sess.RPCVersion,
	})
}

// handleSessionDelete terminates the caller's session.
func (t *Transport) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := t.authorize(w, r)
	if !ok {
		return
	}

	if err := t.sessions.Delete(r.Context(), sess.ID); err != nil {
		t.logger.Error("session delete failed", "session_id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	t.logger.Info("session closed", "session_id", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleRPC executes one request envelope for an established session.
func (t *Transport) handleRPC(w http.ResponseWriter, r *http.Request) {
	sess, ok := t.authorize(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	msg, err := protocol.DecodeRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := t.requests.Execute(r.Context(), sess, msg.RequestType, msg.ParseRequestData())
	if err != nil {
		t.logger.Error("request execution failed",
			"session_id", sess.ID,
			"request_type", msg.RequestType,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "request execution failed")
		return
	}

	// The request type is client-chosen; only registered types may
	// become label values, everything else collapses to one series.
	metricType := msg.RequestType
	switch result.Status {
	case requesthandler.StatusUnknownRequestType, requesthandler.StatusMissingRequestType:
		metricType = "unknown"
	}
	t.metrics.RequestsTotal.WithLabelValues(metricType, result.Status.String()).Inc()
	t.metrics.RequestDuration.WithLabelValues(metricType).Observe(time.Since(start).Seconds())

	// Sliding session expiration; failures only lose the extension.
	if err := t.sessions.Refresh(r.Context(), sess.ID); err != nil {
		t.logger.Debug("session refresh failed", "session_id", sess.ID, "error", err)
	}

	resp := protocol.ResponseMessage{
		RequestID:   msg.RequestID,
		RequestType: msg.RequestType,
		RequestStatus: protocol.RequestStatus{
			Result:  result.OK(),
			Code:    int(result.Status),
			Comment: result.Comment,
		},
	}
	if result.OK() {
		resp.ResponseData = result.ResponseData
	}

	writeJSON(w, http.StatusOK, resp)
}

// authorize resolves the bearer session token. On failure it writes
// the error response and returns ok=false.
func (t *Transport) authorize(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return nil, false
	}

	sess, err := t.sessions.Get(r.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown or expired session")
			return nil, false
		}
		t.logger.Error("session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "session lookup failed")
		return nil, false
	}

	return sess, true
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, protocol.ErrorResponse{Error: message})
}
