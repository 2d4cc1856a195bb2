package handler

import (
	"net/http"
	"time"


	giftsdomain "wedledger/internal/domain/gifts"
)

type memberRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Relation string `json:"relation"`
}

type memberResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type memberEnvelope struct {
	Success bool           `json:"success"`
	Member  memberResponse `json:"member"`
}

type membersResponse struct {
	Success bool             `json:"success"`
	Members []memberResponse `json:"members"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	items, err := h.Gifts.ListMembers(r.Context(), callerID, ownerID)
	if err != nil {
		h.writeDomainError(w, r, "members.list", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	resp := membersResponse{Success: true, Members: make([]memberResponse, 0, len(items))}
	for _, item := range items {
		resp.Members = append(resp.Members, toMemberResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.Gifts.CreateMember(r.Context(), callerID, ownerID, giftsdomain.MemberInput(req))
	if err != nil {
		h.writeDomainError(w, r, "members.create", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	writeJSON(w, http.StatusCreated, memberEnvelope{Success: true, Member: toMemberResponse(*created)})
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	memberID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	updated, err := h.Gifts.UpdateMember(r.Context(), callerID, ownerID, memberID, giftsdomain.MemberInput(req))
	if err != nil {
		h.writeDomainError(w, r, "members.update", err, "owner_id", ownerID, "member_id", memberID, "caller_id", callerID)
		return
	}

	writeJSON(w, http.StatusOK, memberEnvelope{Success: true, Member: toMemberResponse(*updated)})
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	memberID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	if err := h.Gifts.DeleteMember(r.Context(), callerID, ownerID, memberID); err != nil {
		h.writeDomainError(w, r, "members.delete", err, "owner_id", ownerID, "member_id", memberID, "caller_id", callerID)
		return
	}

	writeSuccess(w)
}

func toMemberResponse(member giftsdomain.FamilyMember) memberResponse {
	return memberResponse{
		ID:        member.ID,
		OwnerID:   member.OwnerID,
		Name:      member.Name,
		Color:     member.Color,
		Relation:  member.Relation,
		CreatedAt: member.CreatedAt,
		UpdatedAt: member.UpdatedAt,
	}
}
