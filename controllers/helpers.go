package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AuthCodeHeader carries the authorization code when a request has no body.
const AuthCodeHeader = "X-Auth-Code"

var validate = validator.New()

func init() {
	// decimal.Decimal is a struct; give the validator a number to compare.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds the JSON body and runs the validate tags. On failure the response is
// already written and the caller returns.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		utils.JSONValidation(c, fields)
		return false
	}
	return true
}

// respondError maps core and service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var ve *frontdesk.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONValidation(c, map[string]string{ve.Field: ve.Message})
	case errors.Is(err, frontdesk.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, frontdesk.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, frontdesk.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, "authorization code not recognised")
	case errors.Is(err, services.ErrPersistence):
		utils.JSONError(c, http.StatusInternalServerError, "could not save the change, nothing was applied")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected front-desk error")
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseRoomID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return 0, false
	}
	return uint(id), true
}

// authCode prefers the code from the body and falls back to the header.
func authCode(c *gin.Context, fromBody string) string {
	if strings.TrimSpace(fromBody) != "" {
		return fromBody
	}
	return c.GetHeader(AuthCodeHeader)
}

type RoomView struct {
	models.Room
	GuestDisplayName string `json:"guestDisplayName,omitempty"`
}

func roomView(r models.Room) RoomView {
	v := RoomView{Room: r}
	if !r.Vacant() {
		v.GuestDisplayName = utils.GuestDisplayName(r.GuestName)
	}
	return v
}

func roomViews(rooms []models.Room) []RoomView {
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomView(r))
	}
	return out
}

type GuestHistoryView struct {
	models.GuestHistory
	GuestDisplayName string `json:"guestDisplayName"`
}

func historyView(rec models.GuestHistory) GuestHistoryView {
	return GuestHistoryView{GuestHistory: rec, GuestDisplayName: utils.GuestDisplayName(rec.GuestName)}
}

func historyViews(recs []models.GuestHistory) []GuestHistoryView {
	out := make([]GuestHistoryView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyView(rec))
	}
	return out
}
