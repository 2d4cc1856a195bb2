package handler

import (
	"net/http"
	"time"


	notificationsdomain "wedledger/internal/domain/notifications"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Type      string    `json:"type"`
	RelatedID *string   `json:"relatedId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type notificationsResponse struct {
	Success       bool                   `json:"success"`
	Notifications []notificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

type notificationEnvelope struct {
	Success      bool                 `json:"success"`
	Notification notificationResponse `json:"notification"`
}

type createNotificationRequest struct {
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	RelatedID string `json:"relatedId"`
}

type setReadRequest struct {
	UserID string `json:"userId"`
	IsRead *bool  `json:"isRead"`
}

type markAllReadRequest struct {
	UserID string `json:"userId"`
}

type markAllReadResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, ok := h.caller(w, r, query.Get("userId"))
	if !ok {
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	items, err := h.Notifications.List(r.Context(), userID, notificationsdomain.ListFilter{
		UnreadOnly: parseBoolParam(query.Get("unreadOnly")),
		Limit:      limit,
	})
	if err != nil {
		h.writeDomainError(w, r, "notifications.list", err, "user_id", userID)
		return
	}
	unread, err := h.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, "notifications.unread_count", err, "user_id", userID)
		return
	}

	resp := notificationsResponse{
		Success:       true,
		Notifications: make([]notificationResponse, 0, len(items)),
		UnreadCount:   unread,
	}
	for _, item := range items {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	userID, ok := h.caller(w, r, req.UserID)
	if !ok {
		return
	}

	created, err := h.Notifications.Create(r.Context(), userID, notificationsdomain.CreateInput{
		Title:     req.Title,
		Body:      req.Body,
		Type:      notificationsdomain.Type(req.Type),
		RelatedID: req.RelatedID,
	})
	if err != nil {
		h.writeDomainError(w, r, "notifications.create", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, notificationEnvelope{Success: true, Notification: toNotificationResponse(*created)})
}

func (h *Handlers) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req setReadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	userID, ok := h.caller(w, r, req.UserID)
	if !ok {
		return
	}
	read := true
	if req.IsRead != nil {
		read = *req.IsRead
	}

	if err := h.Notifications.SetRead(r.Context(), id, userID, read); err != nil {
		h.writeDomainError(w, r, "notifications.set_read", err, "notification_id", id, "user_id", userID)
		return
	}

	writeSuccess(w)
}

func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	if err := h.Notifications.Delete(r.Context(), id, userID); err != nil {
		h.writeDomainError(w, r, "notifications.delete", err, "notification_id", id, "user_id", userID)
		return
	}

	writeSuccess(w)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req markAllReadRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}
	userID, ok := h.caller(w, r, req.UserID)
	if !ok {
		return
	}

	updated, err := h.Notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, "notifications.read_all", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, markAllReadResponse{Success: true, Updated: updated})
}

func toNotificationResponse(item notificationsdomain.Notification) notificationResponse {
	return notificationResponse{
		ID:        item.ID,
		UserID:    item.UserID,
		Title:     item.Title,
		Body:      item.Body,
		Type:      string(item.Type),
		RelatedID: item.RelatedID,
		IsRead:    item.IsRead,
		CreatedAt: item.CreatedAt,
	}
}
