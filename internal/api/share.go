package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetShared handles GET /bills/share/{shareToken}.
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	shared, err := s.participants.GetShared(r.Context(), chi.URLParam(r, "shareToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]map[string]any, len(shared.Items))
	for i, item := range shared.Items {
		items[i] = map[string]any{
			"id":         item.Item.ID,
			"name":       item.Item.Name,
			"price":      item.Item.Price,
			"claimed_by": item.ClaimedBy,
		}
	}

	participants := make([]map[string]any, len(shared.Participants))
	for i, p := range shared.Participants {
		participants[i] = map[string]any{
			"id":     p.ID,
			"name":   p.Name,
			"status": p.Status,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bill":         toBillResponse(shared.Bill),
		"items":        items,
		"participants": participants,
	})
}

// handleJoin handles POST /bills/share/{shareToken}/join.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	p, err := s.participants.Join(r.Context(), chi.URLParam(r, "shareToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"participant_id":    p.ID,
		"participant_token": p.Token,
		"status":            p.Status,
	})
}

type replaceClaimsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// handleReplaceClaims handles POST .../participant/{participantToken}/claims.
func (s *Server) handleReplaceClaims(w http.ResponseWriter, r *http.Request) {
	var req replaceClaimsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	count, err := s.participants.ReplaceClaims(r.Context(),
		chi.URLParam(r, "shareToken"), chi.URLParam(r, "participantToken"), req.ItemIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claimed_count": count})
}

// handleGetClaims handles GET .../participant/{participantToken}/claims.
func (s *Server) handleGetClaims(w http.ResponseWriter, r *http.Request) {
	state, err := s.participants.GetClaims(r.Context(),
		chi.URLParam(r, "shareToken"), chi.URLParam(r, "participantToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"participant_id":   state.ParticipantID,
		"name":             state.Name,
		"status":           state.Status,
		"claimed_item_ids": state.ClaimedItemIDs,
	})
}

type submitRequest struct {
	Name string `json:"name"`
}

// handleSubmit handles POST .../participant/{participantToken}/submit.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := s.participants.Submit(r.Context(),
		chi.URLParam(r, "shareToken"), chi.URLParam(r, "participantToken"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "done"})
}

// handleFinal handles GET /bills/share/{shareToken}/final.
func (s *Server) handleFinal(w http.ResponseWriter, r *http.Request) {
	res, err := s.participants.GetFinalResults(r.Context(), chi.URLParam(r, "shareToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	splits := make([]map[string]any, len(res.Splits))
	for i, sp := range res.Splits {
		splits[i] = map[string]any{
			"name":        sp.Name,
			"items_total": sp.ItemsTotal,
			"tax_share":   sp.TaxShare,
			"tip_share":   sp.TipShare,
			"final_total": sp.FinalTotal,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         res.Status,
		"subtotal":       res.Subtotal,
		"tax":            res.Tax,
		"tip":            res.Tip,
		"venmo_handle":   res.Handles.Venmo,
		"zelle_handle":   res.Handles.Zelle,
		"cashapp_handle": res.Handles.CashApp,
		"splits":         splits,
	})
}
