package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/logicdiagram/pkg/circuit"
	"github.com/matzehuels/logicdiagram/pkg/codec"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
)

// maxBody bounds request bodies, including diagram text.
const maxBody = 8 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Line    int         `json:"line,omitempty"`
}

// statusFor maps an error code category to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeNotFound), errors.IsReference(err):
		return http.StatusNotFound
	case errors.IsInvariant(err):
		return http.StatusConflict
	case errors.IsParse(err), errors.Is(err, errors.ErrCodeInvalidInput), errors.Is(err, errors.ErrCodeInvalidName):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err), Line: errors.GetLine(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		body = ErrorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, map[string]ErrorBody{"error": body})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func readText(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return string(data), nil
}

// uidParam reads a "Kind|ID" path parameter. The "|" usually arrives
// percent-encoded.
func uidParam(r *http.Request, name string) (ids.UID, error) {
	raw := chi.URLParam(r, name)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return ids.UID{}, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", raw)
	}
	return codec.ParseUID(v)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, raw)
	}
	return n, nil
}

func parseRole(s string) (circuit.Role, error) {
	switch strings.ToLower(s) {
	case "source", "start":
		return circuit.Source, nil
	case "sink", "end":
		return circuit.Sink, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown role %q", s)
}

func uidStrings(uids []ids.UID) []string {
	out := make([]string, len(uids))
	for i, uid := range uids {
		out[i] = uid.String()
	}
	return out
}

// parseTreeUID reads a "Project|ID" or "Diagram|ID" handle.
func parseTreeUID(s string) (ids.UID, error) {
	kindName, idText, ok := strings.Cut(s, "|")
	id, err := strconv.Atoi(idText)
	if !ok || err != nil || id < 0 {
		return ids.UID{}, errors.New(errors.ErrCodeInvalidInput, "invalid tree id %q", s)
	}
	for _, k := range []ids.Kind{ids.Project, ids.Diagram} {
		if strings.EqualFold(kindName, k.String()) {
			return ids.UID{Kind: k, ID: id}, nil
		}
	}
	return ids.UID{}, errors.New(errors.ErrCodeUnknownKind, "unknown tree kind %q", kindName)
}
