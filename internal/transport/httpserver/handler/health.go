package handler

import "net/http"

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Success: true, Status: "ok"})
}
