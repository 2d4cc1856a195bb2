package handler

import (
	"net/http"
	"time"

	sharingdomain "wedledger/internal/domain/sharing"
)

type generateInviteRequest struct {
	ChildUserID string `json:"childUserId"`
	ParentPhone string `json:"parentPhone"`
	Permission  string `json:"permission"`
	Language    string `json:"language"`
}

type generateInviteResponse struct {
	Success     bool            `json:"success"`
	InviteToken string          `json:"inviteToken"`
	InviteURL   string          `json:"inviteUrl"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	ParentUser  profileResponse `json:"parentUser"`
}

type inviteDetailsResponse struct {
	connectionResponse
	IsExpired  bool            `json:"isExpired"`
	ChildUser  profileResponse `json:"childUser"`
	ParentUser profileResponse `json:"parentUser"`
}

type inviteDetailsEnvelope struct {
	Success    bool                  `json:"success"`
	Connection inviteDetailsResponse `json:"connection"`
}

type acceptInviteRequest struct {
	Token        string `json:"token"`
	ParentUserID string `json:"parentUserId"`
}

type acceptInviteResponse struct {
	Success    bool               `json:"success"`
	Connection connectionResponse `json:"connection"`
	ChildUser  profileResponse    `json:"childUser"`
}

func (h *Handlers) GenerateInvite(w http.ResponseWriter, r *http.Request) {
	var req generateInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	ownerID, ok := h.caller(w, r, req.ChildUserID)
	if !ok {
		return
	}
	if req.ParentPhone == "" || req.Permission == "" {
		writeError(w, http.StatusBadRequest, "parentPhone and permission are required")
		return
	}

	invite, err := h.Sharing.GenerateInvite(r.Context(), ownerID, req.ParentPhone, sharingdomain.Permission(req.Permission), req.Language)
	if err != nil {
		h.writeDomainError(w, r, "invites.generate", err, "owner_id", ownerID)
		return
	}

	writeJSON(w, http.StatusOK, generateInviteResponse{
		Success:     true,
		InviteToken: invite.Token,
		InviteURL:   invite.URL,
		ExpiresAt:   invite.ExpiresAt,
		ParentUser:  toProfileResponse(invite.Viewer),
	})
}

func (h *Handlers) GetInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	details, err := h.Sharing.GetInviteDetails(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, r, "invites.get", err)
		return
	}

	writeJSON(w, http.StatusOK, inviteDetailsEnvelope{
		Success: true,
		Connection: inviteDetailsResponse{
			connectionResponse: toConnectionResponse(details.Connection, false),
			IsExpired:          details.IsExpired,
			ChildUser:          toProfileResponse(details.Owner),
			ParentUser:         toProfileResponse(details.Viewer),
		},
	})
}

func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	viewerID, ok := h.caller(w, r, req.ParentUserID)
	if !ok {
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	accepted, err := h.Sharing.AcceptInvite(r.Context(), req.Token, viewerID)
	if err != nil {
		h.writeDomainError(w, r, "invites.accept", err, "viewer_id", viewerID)
		return
	}

	writeJSON(w, http.StatusOK, acceptInviteResponse{
		Success:    true,
		Connection: toConnectionResponse(accepted.Connection, false),
		ChildUser:  toProfileResponse(accepted.Owner),
	})
}
