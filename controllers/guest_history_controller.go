package controllers

import (
	"net/http"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GuestHistoryController struct {
	FrontDesk *services.FrontDeskService
}

func NewGuestHistoryController(fd *services.FrontDeskService) *GuestHistoryController {
	return &GuestHistoryController{FrontDesk: fd}
}

// GET /api/guest-history?status=&q=
func (hc *GuestHistoryController) GetGuestHistory(c *gin.Context) {
	status := models.GuestStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.JSONValidation(c, map[string]string{"status": "oneof=staying checked-out void"})
		return
	}
	recs := hc.FrontDesk.History(services.HistoryFilter{Status: status, Query: c.Query("q")})
	utils.JSONSuccess(c, http.StatusOK, historyViews(recs))
}

func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guest history id")
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/guest-history/:id
func (hc *GuestHistoryController) GetGuestHistoryByID(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	rec, err := hc.FrontDesk.Record(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, historyView(rec))
}

// POST /api/guest-history/:id/void
func (hc *GuestHistoryController) VoidGuestHistory(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	var req voidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rec, err := hc.FrontDesk.Void(c.Request.Context(), id, req.Reason, authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, historyView(rec))
}
