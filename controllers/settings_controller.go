package controllers

import (
	"net/http"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

// SettingsController serves the code-gated maintenance actions and the lookup lists the
// front desk needs to build its forms.
type SettingsController struct {
	FrontDesk *services.FrontDeskService
}

func NewSettingsController(fd *services.FrontDeskService) *SettingsController {
	return &SettingsController{FrontDesk: fd}
}

// POST /api/auth/verify
// Lets the UI check a code before it opens a destructive dialog.
func (sc *SettingsController) VerifyCode(c *gin.Context) {
	var req codeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	role, err := sc.FrontDesk.VerifyCode(authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"role": role})
}

// POST /api/data/clear
func (sc *SettingsController) ClearAllData(c *gin.Context) {
	var req codeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	role, err := sc.FrontDesk.ClearAll(c.Request.Context(), authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"clearedBy": role})
}

// GET /api/void-reasons
func (sc *SettingsController) GetVoidReasons(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, models.VoidReasons())
}

// GET /api/room-types
func (sc *SettingsController) GetRoomTypes(c *gin.Context) {
	types := models.RoomTypes()
	out := make([]gin.H, 0, len(types))
	for _, t := range types {
		out = append(out, gin.H{"type": t, "defaultPrice": t.DefaultPrice()})
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}
