package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"


	analyticsdomain "wedledger/internal/domain/analytics"
	"wedledger/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type analyticsResponse struct {
	Success bool                   `json:"success"`
	Report  analyticsdomain.Report `json:"report"`
}

func (h *Handlers) LedgerAnalytics(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	summary, err := h.Analytics.Report(r.Context(), callerID, ownerID, r.URL.Query().Get("currency"))
	if err != nil {
		h.writeDomainError(w, r, "analytics.report", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	writeJSON(w, http.StatusOK, analyticsResponse{Success: true, Report: summary})
}

// ExportLedger streams the ledger and its summary as an xlsx workbook.
func (h *Handlers) ExportLedger(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.pathID(w, r, "ownerId")
	if !ok {
		return
	}
	callerID, ok := h.caller(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	ledger, err := h.Gifts.Ledger(r.Context(), callerID, ownerID)
	if err != nil {
		h.writeDomainError(w, r, "export.ledger", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}
	summary, err := h.Analytics.Report(r.Context(), callerID, ownerID, r.URL.Query().Get("currency"))
	if err != nil {
		h.writeDomainError(w, r, "export.report", err, "owner_id", ownerID, "caller_id", callerID)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteLedger(&buf, ledger, summary); err != nil {
		h.logger(r).InternalError("export.write: build workbook failed", err, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="wedledger-%s.xlsx"`, summary.GeneratedAt.Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
