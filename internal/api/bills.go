package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snaptab/snaptab/internal/models"
)

type billResponse struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	ImageURL      string   `json:"image_url,omitempty"`
	Subtotal      *float64 `json:"subtotal"`
	Tax           *float64 `json:"tax"`
	Tip           *float64 `json:"tip"`
	ShareToken    string   `json:"share_token"`
	VenmoHandle   *string  `json:"venmo_handle,omitempty"`
	ZelleHandle   *string  `json:"zelle_handle,omitempty"`
	CashappHandle *string  `json:"cashapp_handle,omitempty"`
	CreatedAt     int64    `json:"created_at"`
}

type itemResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func toBillResponse(bill *models.Bill) billResponse {
	return billResponse{
		ID:            bill.ID,
		Status:        string(bill.Status),
		ImageURL:      bill.ImageURL,
		Subtotal:      bill.Subtotal,
		Tax:           bill.Tax,
		Tip:           bill.Tip,
		ShareToken:    bill.ShareToken,
		VenmoHandle:   bill.Handles.Venmo,
		ZelleHandle:   bill.Handles.Zelle,
		CashappHandle: bill.Handles.CashApp,
		CreatedAt:     bill.CreatedAt,
	}
}

func toItemResponses(items []models.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse{ID: item.ID, Name: item.Name, Price: item.Price}
	}
	return out
}

// handleUpload handles POST /bills/upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return
	}
	defer file.Close()

	bill, err := s.bills.Upload(r.Context(), header.Header.Get("Content-Type"), file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"bill_id":       bill.ID,
		"creator_token": bill.CreatorToken,
		"share_token":   bill.ShareToken,
		"image_url":     bill.ImageURL,
		"status":        bill.Status,
	})
}

// handleGetBill handles GET /bills/creator/{creatorToken}.
func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.bills.GetByCreatorToken(r.Context(), chi.URLParam(r, "creatorToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// handleGetFull handles GET /bills/creator/{creatorToken}/full.
func (s *Server) handleGetFull(w http.ResponseWriter, r *http.Request) {
	bill, items, err := s.bills.GetFull(r.Context(), chi.URLParam(r, "creatorToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bill":  toBillResponse(bill),
		"items": toItemResponses(items),
	})
}

// handleParse handles POST /bills/creator/{creatorToken}/parse.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	res, err := s.bills.Parse(r.Context(), chi.URLParam(r, "creatorToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       toItemResponses(res.Items),
		"subtotal":    res.Subtotal,
		"tax":         res.Tax,
		"tip":         res.Tip,
		"share_token": res.ShareToken,
	})
}

type updateItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// handleUpdateItem handles PATCH /bills/creator/{creatorToken}/items/{itemID}.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	item, err := s.bills.UpdateItem(r.Context(),
		chi.URLParam(r, "creatorToken"), chi.URLParam(r, "itemID"), req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
}

// handleDeleteItem handles DELETE /bills/creator/{creatorToken}/items/{itemID}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	err := s.bills.DeleteItem(r.Context(), chi.URLParam(r, "creatorToken"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type updateTotalsRequest struct {
	Subtotal *float64 `json:"subtotal"`
	Tax      *float64 `json:"tax"`
	Tip      *float64 `json:"tip"`
}

// handleUpdateTotals handles PATCH /bills/creator/{creatorToken}/totals.
func (s *Server) handleUpdateTotals(w http.ResponseWriter, r *http.Request) {
	var req updateTotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	bill, err := s.bills.UpdateTotals(r.Context(),
		chi.URLParam(r, "creatorToken"), req.Subtotal, req.Tax, req.Tip)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}

// handleConfirm handles POST /bills/creator/{creatorToken}/confirm.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	bill, participantToken, err := s.bills.Confirm(r.Context(), chi.URLParam(r, "creatorToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            bill.Status,
		"share_token":       bill.ShareToken,
		"participant_token": participantToken,
	})
}

// handleDashboard handles GET /bills/creator/{creatorToken}/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.bills.GetDashboard(r.Context(), chi.URLParam(r, "creatorToken"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	participants := make([]map[string]any, len(dash.Participants))
	for i, p := range dash.Participants {
		participants[i] = map[string]any{
			"id":            p.ParticipantID,
			"name":          p.Name,
			"status":        p.Status,
			"items_total":   p.ItemsTotal,
			"claimed_items": p.ClaimedItems,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bill":         toBillResponse(dash.Bill),
		"items":        toItemResponses(dash.Items),
		"participants": participants,
	})
}

type completeRequest struct {
	VenmoHandle   *string `json:"venmo_handle"`
	ZelleHandle   *string `json:"zelle_handle"`
	CashappHandle *string `json:"cashapp_handle"`
}

// handleComplete handles POST /bills/creator/{creatorToken}/complete.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	bill, err := s.bills.Complete(r.Context(), chi.URLParam(r, "creatorToken"), models.PaymentHandles{
		Venmo:   req.VenmoHandle,
		Zelle:   req.ZelleHandle,
		CashApp: req.CashappHandle,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}
