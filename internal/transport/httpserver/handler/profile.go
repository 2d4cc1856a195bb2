package handler

import (
	"net/http"
	"time"

	accountdomain "wedledger/internal/domain/account"
)

type profileResponse struct {
	ID        string  `json:"id"`
	Phone     string  `json:"phone"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Birthdate *string `json:"birthdate"`
	Language  string  `json:"language"`
}

type profileEnvelope struct {
	Success bool            `json:"success"`
	User    profileResponse `json:"user"`
}

type updateProfileRequest struct {
	UserID    string  `json:"userId"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Birthdate *string `json:"birthdate"`
	Language  *string `json:"language"`
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	profile, err := h.Accounts.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, r, "profile.get", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, profileEnvelope{Success: true, User: toProfileResponse(*profile)})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	userID, ok := h.caller(w, r, req.UserID)
	if !ok {
		return
	}

	update := accountdomain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Language:  req.Language,
	}
	if req.Birthdate != nil {
		birthdate, err := parseDateRequired(*req.Birthdate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid birthdate")
			return
		}
		update.Birthdate = &birthdate
	}

	profile, err := h.Accounts.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		h.writeDomainError(w, r, "profile.update", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, profileEnvelope{Success: true, User: toProfileResponse(*profile)})
}

func toProfileResponse(profile accountdomain.Profile) profileResponse {
	return profileResponse{
		ID:        profile.ID,
		Phone:     profile.Phone,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Birthdate: formatDate(profile.Birthdate),
		Language:  profile.Language,
	}
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format("2006-01-02")
	return &formatted
}
