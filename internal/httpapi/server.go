package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/offerdeskhq/offerdesk/internal/evaluate"
	"github.com/offerdeskhq/offerdesk/internal/intake"
	"github.com/offerdeskhq/offerdesk/internal/respond"
	"github.com/offerdeskhq/offerdesk/internal/tracker"
)

// holderHeader carries the holder identity for all record and analytics
// routes. There is no account system; the header is the scope key.
const holderHeader = "X-Holder-ID"

// OfferParser is the slice of intake.Parser the server needs. A nil parser
// turns the parse route into a 503 while the rest of the API stays up.
type OfferParser interface {
	ParseOffer(ctx context.Context, text string) (intake.StructuredOffer, error)
	ParseGiftOffer(ctx context.Context, text string) (evaluate.GiftOfferInput, error)
}

type Server struct {
	store          tracker.Store
	parser         OfferParser
	defaultProfile evaluate.HolderProfile
}

func NewServer(store tracker.Store, parser OfferParser, profile evaluate.HolderProfile) http.Handler {
	s := &Server{
		store:          store,
		parser:         parser,
		defaultProfile: profile,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/offers/parse", s.handleParse)
	mux.HandleFunc("/v1/offers/evaluate", s.handleEvaluate)
	mux.HandleFunc("/v1/offers/respond", s.handleRespond)
	mux.HandleFunc("/v1/reports/evaluation", s.handleReport)
	mux.HandleFunc("/v1/records", s.handleRecords)
	mux.HandleFunc("/v1/records/", s.handleRecordByID)
	mux.HandleFunc("/v1/analytics", s.handleAnalytics)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var te *tracker.Error
	if errors.As(err, &te) {
		writeJSON(w, te.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    te.Code,
				"message": te.Message,
			},
		})
		return
	}
	writeJSON(w, 500, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    tracker.CodeInternal,
			"message": err.Error(),
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return tracker.NewValidationError("read body: " + err.Error())
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return tracker.NewValidationError("invalid json: " + err.Error())
	}
	return nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func holderID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(holderHeader))
	if id == "" {
		return "", tracker.NewValidationError(holderHeader + " header is required")
	}
	return id, nil
}

// profileOrDefault fills unset profile fields from the configured default.
func (s *Server) profileOrDefault(p *evaluate.HolderProfile) evaluate.HolderProfile {
	if p == nil {
		return s.defaultProfile
	}
	out := *p
	if out.Tier == "" {
		out.Tier = s.defaultProfile.Tier
	}
	if out.TotalReach == 0 {
		out.TotalReach = s.defaultProfile.TotalReach
	}
	if out.EngagementRate == 0 {
		out.EngagementRate = s.defaultProfile.EngagementRate
	}
	return out
}

// --- offer routes ---

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.parser == nil {
		writeJSON(w, 503, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    "unavailable",
				"message": "offer parsing is not configured",
			},
		})
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	offer, err := s.parser.ParseOffer(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrTextTooShort):
			writeError(w, tracker.NewValidationError(err.Error()))
		case errors.Is(err, intake.ErrParsingUnavailable):
			writeJSON(w, 503, map[string]any{
				"ok": false,
				"error": map[string]any{
					"code":    "unavailable",
					"message": err.Error(),
				},
			})
		default:
			writeError(w, err)
		}
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "offer": offer})
}

type evaluateRequest struct {
	Offer   evaluate.GiftOfferInput `json:"offer"`
	Profile *evaluate.HolderProfile `json:"profile"`
	Context *respond.Context        `json:"context"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ev := evaluate.Evaluate(req.Offer, s.profileOrDefault(req.Profile))
	writeJSON(w, 200, map[string]any{"ok": true, "evaluation": ev})
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var rc respond.Context
	if req.Context != nil {
		rc = *req.Context
	}
	ev := evaluate.Evaluate(req.Offer, s.profileOrDefault(req.Profile))
	resp := respond.Generate(ev, rc)
	writeJSON(w, 200, map[string]any{"ok": true, "evaluation": ev, "response": resp})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var rc respond.Context
	if req.Context != nil {
		rc = *req.Context
	}
	ev := evaluate.Evaluate(req.Offer, s.profileOrDefault(req.Profile))
	md := respond.BuildReportMarkdown(ev, rc)
	html, err := respond.RenderReportHTML(ev, rc)
	if err != nil {
		writeError(w, tracker.NewInternalError(err.Error()))
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "markdown": md, "html": html})
}

// --- record routes ---

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	owner, err := holderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req tracker.CreateInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		req.OwnerID = owner
		rec, err := s.store.Create(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, map[string]any{"ok": true, "record": rec})
	case http.MethodGet:
		status := tracker.Status(strings.TrimSpace(r.URL.Query().Get("status")))
		writeJSON(w, 200, map[string]any{"records": s.store.List(owner, status)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	owner, err := holderID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/records/")
	switch path {
	case "followups-due":
		if !methodOnly(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, 200, map[string]any{"records": s.store.FollowUpsDue(owner)})
		return
	case "ready-to-convert":
		if !methodOnly(w, r, http.MethodGet) {
			return
		}
		writeJSON(w, 200, map[string]any{"records": s.store.ReadyToConvert(owner)})
		return
	}

	id, action, _ := strings.Cut(path, "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if action == "" {
		switch r.Method {
		case http.MethodGet:
			rec, err := s.store.Get(owner, id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, 200, map[string]any{"record": rec})
		case http.MethodDelete:
			if err := s.store.Delete(owner, id); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if !methodOnly(w, r, http.MethodPost) {
		return
	}

	var rec *tracker.OfferRecord
	switch action {
	case "content":
		var req struct {
			ContentType string    `json:"content_type"`
			PostedAt    time.Time `json:"posted_at"`
			PostURL     string    `json:"post_url"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rec, err = s.store.AddContent(owner, id, tracker.ContentInfo{
			ContentType: req.ContentType,
			PostedAt:    req.PostedAt,
			PostURL:     req.PostURL,
		})
	case "metrics":
		var req tracker.EngagementMetrics
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rec, err = s.store.UpdateMetrics(owner, id, req)
	case "notes":
		var req struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rec, err = s.store.AddNote(owner, id, req.Text)
	case "follow-up":
		rec, err = s.store.LogFollowUp(owner, id)
	case "convert":
		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rec, err = s.store.MarkConverted(owner, id, req.Amount)
	case "decline":
		rec, err = s.store.MarkDeclined(owner, id)
	case "archive":
		rec, err = s.store.Archive(owner, id)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "record": rec})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	owner, err := holderID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"analytics": s.store.Analytics(owner)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":             true,
		"parser_enabled": s.parser != nil,
	})
}
