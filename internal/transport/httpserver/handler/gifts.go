package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	giftsdomain "wedledger/internal/domain/gifts"
)

type giftRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	RecipientName string          `json:"recipientName"`
	FromMemberID  *string         `json:"fromMemberId"`
	EventName     string          `json:"eventName"`
	Date          string          `json:"date"`
	Memo          string          `json:"memo"`
}

type giftResponse struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	RecipientName string          `json:"recipientName"`
	FromMemberID  *string         `json:"fromMemberId"`
	EventName     string          `json:"eventName"`
	Date          string          `json:"date"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type giftEnvelope struct {
	Success bool         `json:"success"`
	Gift    giftResponse `json:"gift"`
}

type giftsResponse struct {
	Success bool           `json:"success"`
	Gifts   []giftResponse `json:"gifts"`
}

func (h *Handlers) ListGifts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to")
		return
	}

	memberID := strings.TrimSpace(query.Get("memberId"))
	if memberID != "" && !validID(memberID) {
		writeError(w, http.StatusBadRequest, "invalid memberId")
		return
	}

	items, err := h.Gifts.ListGifts(r.Context(), callerID, ownerID, giftsdomain.ListFilter{
		From:     from,
		To:       to,
		MemberID: memberID,
	})
	if err != nil {
		h.writeDomainError(w, r, "gifts.list", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	resp := giftsResponse{Success: true, Gifts: make([]giftResponse, 0, len(items))}
	for _, item := range items {
		resp.Gifts = append(resp.Gifts, toGiftResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateGift(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	input, ok := decodeGiftInput(w, r)
	if !ok {
		return
	}

	created, err := h.Gifts.CreateGift(r.Context(), callerID, ownerID, input)
	if err != nil {
		h.writeDomainError(w, r, "gifts.create", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	writeJSON(w, http.StatusCreated, giftEnvelope{Success: true, Gift: toGiftResponse(*created)})
}

func (h *Handlers) UpdateGift(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	giftID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	input, ok := decodeGiftInput(w, r)
	if !ok {
		return
	}

	updated, err := h.Gifts.UpdateGift(r.Context(), callerID, ownerID, giftID, input)
	if err != nil {
		h.writeDomainError(w, r, "gifts.update", err, "owner_id", ownerID, "gift_id", giftID, "caller_id", callerID)
		return
	}

	writeJSON(w, http.StatusOK, giftEnvelope{Success: true, Gift: toGiftResponse(*updated)})
}

func (h *Handlers) DeleteGift(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	giftID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	if err := h.Gifts.DeleteGift(r.Context(), callerID, ownerID, giftID); err != nil {
		h.writeDomainError(w, r, "gifts.delete", err, "owner_id", ownerID, "gift_id", giftID, "caller_id", callerID)
		return
	}

	writeSuccess(w)
}

func decodeGiftInput(w http.ResponseWriter, r *http.Request) (giftsdomain.GiftInput, bool) {
	var req giftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return giftsdomain.GiftInput{}, false
	}
	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return giftsdomain.GiftInput{}, false
	}
	if req.FromMemberID != nil {
		if id := strings.TrimSpace(*req.FromMemberID); id != "" && !validID(id) {
			writeError(w, http.StatusBadRequest, "fromMemberId does not match a family member")
			return giftsdomain.GiftInput{}, false
		}
	}
	return giftsdomain.GiftInput{
		Amount:        req.Amount,
		Currency:      req.Currency,
		RecipientName: req.RecipientName,
		FromMemberID:  req.FromMemberID,
		EventName:     req.EventName,
		Date:          date,
		Memo:          req.Memo,
	}, true
}

func toGiftResponse(gift giftsdomain.Gift) giftResponse {
	return giftResponse{
		ID:            gift.ID,
		OwnerID:       gift.OwnerID,
		Amount:        gift.Amount,
		Currency:      gift.Currency,
		RecipientName: gift.RecipientName,
		FromMemberID:  gift.FromMemberID,
		EventName:     gift.EventName,
		Date:          gift.Date.Format("2006-01-02"),
		Memo:          gift.Memo,
		CreatedAt:     gift.CreatedAt,
		UpdatedAt:     gift.UpdatedAt,
	}
}
