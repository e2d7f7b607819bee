package controllers

import (
	"net/http"
	"slices"
	"time"

	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RoomController struct {
	FrontDesk *services.FrontDeskService
}

func NewRoomController(fd *services.FrontDeskService) *RoomController {
	return &RoomController{FrontDesk: fd}
}

// ----------------------------------------------------
// Registry
// ----------------------------------------------------

// GET /api/rooms?status=cleaning
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms := rc.FrontDesk.Rooms()
	raw := c.Query("status")
	if raw == "" {
		utils.JSONSuccess(c, http.StatusOK, roomViews(rooms))
		return
	}
	status := models.RoomStatus(raw)
	if !slices.Contains(models.RoomStatuses(), status) {
		utils.JSONValidation(c, map[string]string{"status": "oneof=available occupied reserved cleaning"})
		return
	}
	filtered := rooms[:0]
	for _, r := range rooms {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	utils.JSONSuccess(c, http.StatusOK, roomViews(filtered))
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	room, err := rc.FrontDesk.Room(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomView(room))
}

type createRoomRequest struct {
	Number   string           `json:"number" validate:"required,max=50"`
	Floor    int              `json:"floor" validate:"gte=0"`
	RoomType models.RoomType  `json:"roomType" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Code     string           `json:"code"`
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := rc.FrontDesk.AddRoom(c.Request.Context(), frontdesk.AddRoomCommand{
		Number: req.Number,
		Floor:  req.Floor,
		Type:   req.RoomType,
		Price:  req.Price,
	}, authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, roomView(room))
}

type updateRoomRequest struct {
	Number   *string          `json:"number" validate:"omitempty,max=50"`
	Floor    *int             `json:"floor" validate:"omitempty,gte=0"`
	RoomType *models.RoomType `json:"roomType"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Code     string           `json:"code"`
}

// PATCH /api/rooms/:id
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req updateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := rc.FrontDesk.UpdateRoom(c.Request.Context(), frontdesk.UpdateRoomCommand{
		RoomID: id,
		Number: req.Number,
		Floor:  req.Floor,
		Type:   req.RoomType,
		Price:  req.Price,
	}, authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomView(room))
}

type codeRequest struct {
	Code string `json:"code"`
}

// DELETE /api/rooms/:id
// The code may come as a JSON body or in the X-Auth-Code header.
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req codeRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if err := rc.FrontDesk.DeleteRoom(c.Request.Context(), id, authCode(c, req.Code)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ----------------------------------------------------
// Stays
// ----------------------------------------------------

type checkInRequest struct {
	GuestName    *string          `json:"guestName" validate:"omitempty,max=255"`
	Phone        string           `json:"phone" validate:"max=50"`
	Passport     string           `json:"passport" validate:"max=50"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	StayDuration int              `json:"stayDuration" validate:"omitempty,min=1,max=365"`
}

// POST /api/rooms/:id/checkin
func (rc *RoomController) CheckIn(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req checkInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stay, err := rc.FrontDesk.CheckIn(c.Request.Context(), frontdesk.CheckInCommand{
		RoomID:       id,
		GuestName:    req.GuestName,
		Phone:        req.Phone,
		Passport:     req.Passport,
		Price:        req.Price,
		StayDuration: req.StayDuration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusCreated, stay)
}

// POST /api/rooms/:id/checkout
func (rc *RoomController) CheckOut(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	stay, err := rc.FrontDesk.CheckOut(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusOK, stay)
}

// POST /api/rooms/:id/clean
func (rc *RoomController) MarkCleaned(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	room, changed, err := rc.FrontDesk.MarkCleaned(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room": roomView(room), "changed": changed})
}

type bulkCleanRequest struct {
	RoomIDs []uint `json:"roomIds" validate:"required,min=1,dive,gt=0"`
}

// POST /api/rooms/clean
func (rc *RoomController) BulkClean(c *gin.Context) {
	var req bulkCleanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cleaned, err := rc.FrontDesk.BulkClean(c.Request.Context(), req.RoomIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"cleaned": cleaned})
}

type extendRequest struct {
	DaysToAdd int `json:"daysToAdd" validate:"required,min=1,max=365"`
}

// POST /api/rooms/:id/extend
func (rc *RoomController) ExtendStay(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req extendRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stay, err := rc.FrontDesk.ExtendStay(c.Request.Context(), id, req.DaysToAdd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusOK, stay)
}

type moveRequest struct {
	NewRoomID uint `json:"newRoomId" validate:"required"`
}

// POST /api/rooms/:id/move
func (rc *RoomController) MoveRoom(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req moveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stay, err := rc.FrontDesk.MoveRoom(c.Request.Context(), id, req.NewRoomID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusOK, stay)
}

// respondStay returns the room together with the ledger record the command touched.
func respondStay(c *gin.Context, status int, stay services.Stay) {
	utils.JSONSuccess(c, status, gin.H{"room": roomView(stay.Room), "guestHistory": historyView(stay.Record)})
}

// ----------------------------------------------------
// Reservations
// ----------------------------------------------------

type reserveRequest struct {
	GuestName       *string `json:"guestName" validate:"omitempty,max=255"`
	Phone           string  `json:"phone" validate:"max=50"`
	ReservationDate string  `json:"reservationDate" validate:"required,datetime=2006-01-02"`
	PaymentStatus   string  `json:"paymentStatus" validate:"omitempty,oneof=Paid Unpaid"`
}

// POST /api/rooms/:id/reserve
func (rc *RoomController) Reserve(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req reserveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	day, err := time.ParseInLocation("2006-01-02", req.ReservationDate, rc.FrontDesk.Now().Location())
	if err != nil {
		utils.JSONValidation(c, map[string]string{"reservationDate": "datetime"})
		return
	}
	date := datatypes.Date(day)
	room, err := rc.FrontDesk.Reserve(c.Request.Context(), frontdesk.ReserveCommand{
		RoomID:          id,
		GuestName:       req.GuestName,
		Phone:           req.Phone,
		ReservationDate: &date,
		PaymentStatus:   models.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roomView(room))
}

// POST /api/rooms/:id/reservation/confirm
func (rc *RoomController) ConfirmReservation(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	stay, err := rc.FrontDesk.ConfirmReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusOK, stay)
}

type voidRequest struct {
	Reason models.VoidReason `json:"reason" validate:"required"`
	Code   string            `json:"code"`
}

// POST /api/rooms/:id/reservation/cancel
func (rc *RoomController) CancelReservation(c *gin.Context) {
	id, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req voidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stay, err := rc.FrontDesk.CancelReservation(c.Request.Context(), id, req.Reason, authCode(c, req.Code))
	if err != nil {
		respondError(c, err)
		return
	}
	respondStay(c, http.StatusOK, stay)
}
