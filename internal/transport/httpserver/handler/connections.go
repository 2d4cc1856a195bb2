package handler

import (
	"net/http"
	"time"


	sharingdomain "wedledger/internal/domain/sharing"
)

type connectionResponse struct {
	ID              string    `json:"id"`
	ChildUserID     string    `json:"childUserId"`
	ParentUserID    string    `json:"parentUserId"`
	Permission      string    `json:"permission"`
	Status          string    `json:"status"`
	InviteToken     string    `json:"inviteToken,omitempty"`
	InviteExpiresAt time.Time `json:"inviteExpiresAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type connectionViewResponse struct {
	connectionResponse
	ChildUser  *profileResponse `json:"childUser,omitempty"`
	ParentUser *profileResponse `json:"parentUser,omitempty"`
}

type connectionsResponse struct {
	Success     bool                     `json:"success"`
	Connections []connectionViewResponse `json:"connections"`
}

type updatePermissionRequest struct {
	UserID       string `json:"userId"`
	ParentUserID string `json:"parentUserId"`
	ChildUserID  string `json:"childUserId"`
	Permission   string `json:"permission"`
}

type revokeConnectionRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type viewedRequest struct {
	ParentUserID string `json:"parentUserId"`
	ChildUserID  string `json:"childUserId"`
	ConnectionID string `json:"connectionId"`
}

// UpdatePermission is called by the viewer of an accepted connection.
func (h *Handlers) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	connectionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updatePermissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	viewerID, ok := h.caller(w, r, firstNonEmpty(req.UserID, req.ParentUserID, req.ChildUserID))
	if !ok {
		return
	}
	if req.Permission == "" {
		writeError(w, http.StatusBadRequest, "permission is required")
		return
	}

	if _, err := h.Sharing.UpdatePermission(r.Context(), connectionID, viewerID, sharingdomain.Permission(req.Permission)); err != nil {
		h.writeDomainError(w, r, "connections.update_permission", err, "connection_id", connectionID, "viewer_id", viewerID)
		return
	}

	writeSuccess(w)
}

func (h *Handlers) RevokeConnection(w http.ResponseWriter, r *http.Request) {
	connectionID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req revokeConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	userID, ok := h.caller(w, r, req.UserID)
	if !ok {
		return
	}
	role, err := sharingdomain.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "role must be owner or viewer")
		return
	}

	if err := h.Sharing.RevokeConnection(r.Context(), connectionID, userID, role); err != nil {
		h.writeDomainError(w, r, "connections.revoke", err, "connection_id", connectionID, "user_id", userID, "role", role)
		return
	}

	writeSuccess(w)
}

func (h *Handlers) ListMyConnections(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.caller(w, r, r.URL.Query().Get("childUserId"))
	if !ok {
		return
	}

	views, err := h.Sharing.ListOwned(r.Context(), ownerID)
	if err != nil {
		h.writeDomainError(w, r, "connections.list_owned", err, "owner_id", ownerID)
		return
	}

	resp := connectionsResponse{Success: true, Connections: make([]connectionViewResponse, 0, len(views))}
	for _, view := range views {
		viewer := toProfileResponse(view.Counterpart)
		resp.Connections = append(resp.Connections, connectionViewResponse{
			connectionResponse: toConnectionResponse(view.Connection, true),
			ParentUser:         &viewer,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ListSharedConnections(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.caller(w, r, r.URL.Query().Get("parentUserId"))
	if !ok {
		return
	}

	views, err := h.Sharing.ListShared(r.Context(), viewerID)
	if err != nil {
		h.writeDomainError(w, r, "connections.list_shared", err, "viewer_id", viewerID)
		return
	}

	resp := connectionsResponse{Success: true, Connections: make([]connectionViewResponse, 0, len(views))}
	for _, view := range views {
		owner := toProfileResponse(view.Counterpart)
		resp.Connections = append(resp.Connections, connectionViewResponse{
			connectionResponse: toConnectionResponse(view.Connection, false),
			ChildUser:          &owner,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ConnectionViewed(w http.ResponseWriter, r *http.Request) {
	var req viewedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	viewerID, ok := h.caller(w, r, req.ParentUserID)
	if !ok {
		return
	}
	if req.ChildUserID == "" || req.ConnectionID == "" {
		writeError(w, http.StatusBadRequest, "childUserId and connectionId are required")
		return
	}
	if !validID(req.ChildUserID) || !validID(req.ConnectionID) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.Sharing.NotifyViewed(r.Context(), req.ChildUserID, viewerID, req.ConnectionID); err != nil {
		h.writeDomainError(w, r, "connections.viewed", err, "connection_id", req.ConnectionID, "viewer_id", viewerID)
		return
	}

	writeSuccess(w)
}

// toConnectionResponse includes the invite token only for the owner.
func toConnectionResponse(connection sharingdomain.Connection, withToken bool) connectionResponse {
	resp := connectionResponse{
		ID:              connection.ID,
		ChildUserID:     connection.OwnerID,
		ParentUserID:    connection.ViewerID,
		Permission:      string(connection.Permission),
		Status:          string(connection.Status),
		InviteExpiresAt: connection.InviteExpiresAt,
		CreatedAt:       connection.CreatedAt,
		UpdatedAt:       connection.UpdatedAt,
	}
	if withToken {
		resp.InviteToken = connection.InviteToken
	}
	return resp
}
