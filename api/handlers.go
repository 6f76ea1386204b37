/*
handlers.go - HTTP handlers for the laytime dossier API

PURPOSE:
  Exposes the settlement engine over REST. Handlers parse and validate
  input, delegate to the engine, and map engine errors onto HTTP status
  codes. No calculation logic lives here.

ENDPOINTS:
  Dossiers:
    GET    /api/dossiers                    List dossiers
    POST   /api/dossiers                    Create dossier
    GET    /api/dossiers/{id}               Get dossier
    PUT    /api/dossiers/{id}               Replace dossier
    DELETE /api/dossiers/{id}               Delete dossier
    PUT    /api/dossiers/{id}/terms         Replace charter party terms

  SOF events:
    POST   /api/dossiers/{id}/events            Add event
    PUT    /api/dossiers/{id}/events/{eventID}  Update event
    DELETE /api/dossiers/{id}/events/{eventID}  Remove event

  Settlement:
    GET    /api/dossiers/{id}/settlement    Recompute and return result
    GET    /api/dossiers/{id}/report        Rendered statement (text or pdf)

  Extraction:
    POST   /api/dossiers/{id}/extract       Propose candidate events

  Calendars:
    GET    /api/calendars                   List configured ports
    GET    /api/calendars/{port}            Holiday dates for a port

ERROR HANDLING:
  400: malformed input, invalid terms/events
  404: unknown dossier/event
  409: contiguity conflicts (gap/overlap), duplicate event ids
  500: storage failures

RECOMPUTATION:
  The settlement endpoint always recomputes from the stored terms+ledger;
  nothing derived is cached or persisted, so a result can never be stale.
*/
package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seafix/laytime-engine/calendar"
	"github.com/seafix/laytime-engine/extract"
	"github.com/seafix/laytime-engine/laytime"
	"github.com/seafix/laytime-engine/report"
	"github.com/seafix/laytime-engine/store"
)

// maxUploadBytes bounds SOF document uploads for extraction.
const maxUploadBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     store.Dossiers
	Calendars *calendar.Set
	Extractor extract.Extractor
}

func NewHandler(st store.Dossiers, calendars *calendar.Set, extractor extract.Extractor) *Handler {
	if calendars == nil {
		calendars = calendar.NewSet()
	}
	if extractor == nil {
		extractor = extract.Nop{}
	}
	return &Handler{Store: st, Calendars: calendars, Extractor: extractor}
}

func newDossierID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("dsr-%d", time.Now().UnixNano())
	}
	return "dsr-" + hex.EncodeToString(b[:])
}

// =============================================================================
// DOSSIER CRUD
// =============================================================================

func (h *Handler) ListDossiers(w http.ResponseWriter, r *http.Request) {
	dossiers, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]DossierDTO, 0, len(dossiers))
	for _, d := range dossiers {
		dtos = append(dtos, dossierDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateDossier(w http.ResponseWriter, r *http.Request) {
	var req CreateDossierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Errorf("bad request body: %w", err))
		return
	}
	if req.ID == "" {
		req.ID = newDossierID()
	}
	if req.Name == "" {
		writeBadRequest(w, errors.New("name is required"))
		return
	}

	terms, err := req.Terms.toTerms()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if _, err := terms.Validate(); err != nil {
		writeError(w, err)
		return
	}

	ledger := laytime.NewLedger(terms.Commencement)
	for _, er := range req.Events {
		event, err := er.toEvent()
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		if err := ledger.AddEvent(event); err != nil {
			ledgerRejections.Inc()
			writeError(w, err)
			return
		}
	}

	d := &store.Dossier{
		ID:     req.ID,
		Name:   req.Name,
		Port:   req.Port,
		Terms:  terms,
		Events: ledger.Events(),
	}
	if err := h.Store.Save(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dossierDTO(d))
}

func (h *Handler) GetDossier(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dossierDTO(d))
}

// UpdateDossier replaces the whole dossier: name, port, terms and SOF. The
// incoming ledger is revalidated from scratch; created_at is preserved by
// the store.
func (h *Handler) UpdateDossier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	var req CreateDossierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Errorf("bad request body: %w", err))
		return
	}
	if req.Name == "" {
		writeBadRequest(w, errors.New("name is required"))
		return
	}

	terms, err := req.Terms.toTerms()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if _, err := terms.Validate(); err != nil {
		writeError(w, err)
		return
	}

	ledger := laytime.NewLedger(terms.Commencement)
	for _, er := range req.Events {
		event, err := er.toEvent()
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		if err := ledger.AddEvent(event); err != nil {
			ledgerRejections.Inc()
			writeError(w, err)
			return
		}
	}

	d := &store.Dossier{
		ID:     id,
		Name:   req.Name,
		Port:   req.Port,
		Terms:  terms,
		Events: ledger.Events(),
	}
	if err := h.Store.Save(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dossierDTO(d))
}

func (h *Handler) DeleteDossier(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTerms replaces the charter party terms. The stored ledger is kept;
// the next settlement run re-clips it against the new commencement.
func (h *Handler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req TermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Errorf("bad request body: %w", err))
		return
	}
	terms, err := req.toTerms()
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if _, err := terms.Validate(); err != nil {
		writeError(w, err)
		return
	}

	d.Terms = terms
	if err := h.Store.Save(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dossierDTO(d))
}

// =============================================================================
// SOF EVENT EDITS
// =============================================================================

func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	h.editLedger(w, r, func(ledger *laytime.Ledger) error {
		var req EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return fmt.Errorf("bad request body: %w", err)
		}
		event, err := req.toEvent()
		if err != nil {
			return err
		}
		return ledger.AddEvent(event)
	})
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	h.editLedger(w, r, func(ledger *laytime.Ledger) error {
		var req EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return fmt.Errorf("bad request body: %w", err)
		}
		req.ID = chi.URLParam(r, "eventID")
		event, err := req.toEvent()
		if err != nil {
			return err
		}
		return ledger.UpdateEvent(event)
	})
}

func (h *Handler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	h.editLedger(w, r, func(ledger *laytime.Ledger) error {
		return ledger.RemoveEvent(chi.URLParam(r, "eventID"))
	})
}

// editLedger loads the dossier, rebuilds its validated ledger, applies one
// edit, and persists the result. The edit callback returns engine errors
// which map to 400/404/409 below.
func (h *Handler) editLedger(w http.ResponseWriter, r *http.Request, edit func(*laytime.Ledger) error) {
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	ledger, err := d.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := edit(ledger); err != nil {
		if laytime.IsClientError(err) {
			ledgerRejections.Inc()
		}
		writeError(w, err)
		return
	}

	d.Events = ledger.Events()
	if err := h.Store.Save(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dossierDTO(d))
}

// =============================================================================
// SETTLEMENT & REPORT
// =============================================================================

func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	result, _, err := h.settle(r)
	if err != nil {
		writeError(w, err)
		return
	}
	settlementsTotal.WithLabelValues(string(result.Outcome)).Inc()
	writeJSON(w, http.StatusOK, settlementDTO(result))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	result, d, err := h.settle(r)
	if err != nil {
		writeError(w, err)
		return
	}
	statement := report.Statement{
		DossierName: d.Name,
		Port:        d.Port,
		Terms:       d.Terms,
		Result:      result,
	}

	switch r.URL.Query().Get("format") {
	case "pdf":
		data, err := report.BuildPDF(statement)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.ID+".pdf"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.WriteText(w, statement); err != nil {
			log.Printf("report render: %v", err)
		}
	default:
		writeBadRequest(w, fmt.Errorf("unknown format %q", r.URL.Query().Get("format")))
	}
}

func (h *Handler) settle(r *http.Request) (laytime.SettlementResult, *store.Dossier, error) {
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return laytime.SettlementResult{}, nil, err
	}
	ledger, err := d.Ledger()
	if err != nil {
		return laytime.SettlementResult{}, nil, err
	}
	result, err := laytime.Settle(d.Terms, ledger, h.Calendars.ForPort(d.Port))
	if err != nil {
		return laytime.SettlementResult{}, nil, err
	}
	return result, d, nil
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract proposes candidate events from an uploaded SOF document. The
// candidates are returned for review - they are never committed to the
// ledger here, and an extraction failure yields zero candidates rather
// than an engine error.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	d, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeBadRequest(w, fmt.Errorf("read upload: %w", err))
		return
	}

	candidates, err := h.Extractor.Extract(r.Context(), data, r.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("extraction failed for dossier %s: %v", d.ID, err)
		candidates = nil
	}
	extractionCandidates.Add(float64(len(candidates)))

	events, candidateErrs := extract.Promote(candidates, d.ID)
	dto := ExtractionDTO{
		Candidates: candidates,
		Events:     make([]EventDTO, 0, len(events)),
	}
	for _, e := range events {
		dto.Events = append(dto.Events, eventDTO(e))
	}
	for _, ce := range candidateErrs {
		dto.Rejected = append(dto.Rejected, RejectedDTO{Index: ce.Index, Reason: ce.Err.Error()})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CALENDARS
// =============================================================================

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ports": h.Calendars.Ports()})
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	port := chi.URLParam(r, "port")
	cal := h.Calendars.ForPort(port)

	dates := []string{}
	if lister, ok := cal.(interface{ Dates() []time.Time }); ok {
		for _, d := range lister.Dates() {
			dates = append(dates, d.Format("2006-01-02"))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"port": port, "holidays": dates})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

// writeError maps engine and store errors onto HTTP statuses, attaching the
// structured context the edit UI needs (offending fields, conflicting pair).
func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}

	var gapErr *laytime.GapOrOverlapError
	var termsErr *laytime.InvalidTermsError
	switch {
	case errors.As(err, &gapErr):
		body.Code = "ledger_gap_or_overlap"
		body.Details = map[string]any{
			"prev_id":   gapErr.PrevID,
			"next_id":   gapErr.NextID,
			"prev_to":   gapErr.PrevTo.Format(time.RFC3339),
			"next_from": gapErr.NextFrom.Format(time.RFC3339),
			"overlap":   gapErr.Overlap,
		}
		writeJSON(w, http.StatusConflict, body)
	case errors.Is(err, laytime.ErrDuplicateEventID):
		body.Code = "duplicate_event_id"
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &termsErr):
		body.Code = "invalid_terms"
		fields := make(map[string]any, len(termsErr.Fields))
		for _, f := range termsErr.Fields {
			fields[f.Field] = f.Message
		}
		body.Details = map[string]any{"fields": fields}
		writeJSON(w, http.StatusBadRequest, body)
	case laytime.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, store.ErrDossierNotFound), laytime.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, body)
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
