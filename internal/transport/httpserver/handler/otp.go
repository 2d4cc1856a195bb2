package handler

import (
	"net/http"
	"strings"
	"time"

	accountdomain "wedledger/internal/domain/account"
	"wedledger/pkg/logger"
)

type sendCodeRequest struct {
	Phone string `json:"phone"`
}

type sendCodeResponse struct {
	Success    bool `json:"success"`
	Recipients int  `json:"recipients"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type verifiedUserResponse struct {
	profileResponse
	FamilyCount int64 `json:"familyCount"`
	GiftsCount  int64 `json:"giftsCount"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type verifyCodeResponse struct {
	Success bool                 `json:"success"`
	User    verifiedUserResponse `json:"user"`
	Session *sessionResponse     `json:"session,omitempty"`
}

func (h *Handlers) SendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	delivery, err := h.Accounts.IssueCode(r.Context(), req.Phone)
	if err != nil {
		h.writeDomainError(w, r, "otp.send", err, "phone", logger.MaskPhone(accountdomain.NormalizePhone(req.Phone)))
		return
	}

	writeJSON(w, http.StatusOK, sendCodeResponse{Success: true, Recipients: delivery.Recipients})
}

func (h *Handlers) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.OTP) == "" {
		writeError(w, http.StatusBadRequest, "phone and otp are required")
		return
	}

	result, err := h.Accounts.VerifyCode(r.Context(), req.Phone, req.OTP)
	if err != nil {
		h.writeDomainError(w, r, "otp.verify", err, "phone", logger.MaskPhone(accountdomain.NormalizePhone(req.Phone)))
		return
	}

	resp := verifyCodeResponse{
		Success: true,
		User: verifiedUserResponse{
			profileResponse: toProfileResponse(result.Profile),
			FamilyCount:     result.Counts.FamilyCount,
			GiftsCount:      result.Counts.GiftsCount,
		},
	}
	if result.Session != nil {
		resp.Session = &sessionResponse{Token: result.Session.Token, ExpiresAt: result.Session.ExpiresAt}
	}
	writeJSON(w, http.StatusOK, resp)
}
