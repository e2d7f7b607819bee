package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-frontdesk/controllers"
	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"
	"hotel-frontdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeTable map[string]models.Role

func (c codeTable) RoleForCode(code string) (models.Role, bool) {
	r, ok := c[code]
	return r, ok
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	state, err := frontdesk.NewState([]models.Room{
		{ID: 1, Number: "101", Floor: 1, Type: models.RoomFanSingle, Price: decimal.NewFromInt(150000), Status: models.RoomAvailable},
		{ID: 2, Number: "102", Floor: 1, Type: models.RoomFanDouble, Price: decimal.NewFromInt(200000), Status: models.RoomAvailable},
		{ID: 3, Number: "201", Floor: 2, Type: models.RoomACDouble, Price: decimal.NewFromInt(300000), Status: models.RoomAvailable},
	}, nil)
	require.NoError(t, err)
	fd := services.NewFrontDeskService(state, services.Options{
		Policy:     frontdesk.DefaultPolicy,
		Authorizer: codeTable{"9999": models.RoleAdministrator, "1111": models.RoleStaff},
		Clock:      func() time.Time { return time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC) },
	})
	return SetupRouter(Controllers{
		Rooms:        controllers.NewRoomController(fd),
		GuestHistory: controllers.NewGuestHistoryController(fd),
		Dashboard:    controllers.NewDashboardController(fd),
		Settings:     controllers.NewSettingsController(fd),
		Health:       controllers.Health(nil, nil),
	}, nil, "")
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

type stayResponse struct {
	Room         controllers.RoomView         `json:"room"`
	GuestHistory controllers.GuestHistoryView `json:"guestHistory"`
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"disabled"`)
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/rooms/2/checkin", gin.H{"stayDuration": 2})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var stay stayResponse
	require.NoError(t, json.Unmarshal(env.Data, &stay))
	assert.Equal(t, models.RoomOccupied, stay.Room.Status)
	assert.Equal(t, "(no name)", stay.Room.GuestDisplayName)
	assert.Equal(t, "400000", stay.GuestHistory.TotalPrice.String())

	code, _ = do(t, r, http.MethodPost, "/api/rooms/2/checkin", gin.H{})
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, r, http.MethodPost, "/api/rooms/2/extend", gin.H{"daysToAdd": 1})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = do(t, r, http.MethodPost, "/api/rooms/2/move", gin.H{"newRoomId": 3})
	require.Equal(t, http.StatusOK, code, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &stay))
	assert.Equal(t, "201", stay.Room.Number)
	// 600000 booked, then (300000 - 200000) x 3 nights
	assert.Equal(t, "900000", stay.GuestHistory.TotalPrice.String())

	code, _ = do(t, r, http.MethodPost, "/api/rooms/3/checkout", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPost, "/api/rooms/clean", gin.H{"roomIds": []uint{2, 3, 1}})
	require.Equal(t, http.StatusOK, code, env.Error)
	var cleaned struct {
		Cleaned []uint `json:"cleaned"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cleaned))
	assert.Equal(t, []uint{2, 3}, cleaned.Cleaned)

	code, env = do(t, r, http.MethodGet, "/api/guest-history?status=checked-out", nil)
	require.Equal(t, http.StatusOK, code)
	var recs []controllers.GuestHistoryView
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "201", recs[0].RoomNumber)
}

func TestValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/rooms/1/reserve", gin.H{"guestName": "Lee"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "required", env.Fields["reservationDate"])

	code, env = do(t, r, http.MethodPost, "/api/rooms/1/reserve", gin.H{"reservationDate": "2026-03-01"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Fields, "reservationDate")

	code, _ = do(t, r, http.MethodPost, "/api/rooms/1/extend", gin.H{"daysToAdd": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/1/checkin", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code, _ = do(t, r, http.MethodPost, "/api/rooms/abc/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, r, http.MethodPost, "/api/rooms/99/checkout", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestReservationCancelNeedsCode(t *testing.T) {
	r := newTestRouter(t)
	code, env := do(t, r, http.MethodPost, "/api/rooms/1/reserve", gin.H{
		"guestName":       "Lee",
		"reservationDate": "2026-03-12",
		"paymentStatus":   "Paid",
	})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, _ = do(t, r, http.MethodPost, "/api/rooms/1/reservation/cancel", gin.H{"reason": "no-show", "code": "0000"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, r, http.MethodPost, "/api/rooms/1/reservation/cancel", gin.H{"reason": "no-show"}, controllers.AuthCodeHeader, "1111")
	require.Equal(t, http.StatusOK, code, env.Error)
	var stay stayResponse
	require.NoError(t, json.Unmarshal(env.Data, &stay))
	assert.Equal(t, models.GuestVoid, stay.GuestHistory.Status)
	assert.Equal(t, models.RoleStaff, stay.GuestHistory.VoidBy)
	assert.Equal(t, "Lee", stay.GuestHistory.GuestDisplayName)
	assert.Equal(t, models.RoomAvailable, stay.Room.Status)
}

func TestVoidOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	code, env := do(t, r, http.MethodPost, "/api/rooms/1/checkin", gin.H{"guestName": "Ploy"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var stay stayResponse
	require.NoError(t, json.Unmarshal(env.Data, &stay))
	path := "/api/guest-history/" + stay.GuestHistory.ID.String() + "/void"

	code, env = do(t, r, http.MethodPost, path, gin.H{"reason": "because", "code": "9999"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Fields, "reason")

	code, env = do(t, r, http.MethodPost, path, gin.H{"reason": "wrong-entry", "code": "9999"})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = do(t, r, http.MethodGet, "/api/rooms/1", nil)
	require.Equal(t, http.StatusOK, code)
	var room controllers.RoomView
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, models.RoomCleaning, room.Status)
	assert.Empty(t, room.GuestDisplayName)

	code, _ = do(t, r, http.MethodGet, "/api/guest-history/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRoomAdministration(t *testing.T) {
	r := newTestRouter(t)

	code, _ := do(t, r, http.MethodPost, "/api/rooms", gin.H{"number": "301", "floor": 3, "roomType": "ac-single"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := do(t, r, http.MethodPost, "/api/rooms", gin.H{"number": "301", "floor": 3, "roomType": "ac-single", "code": "9999"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var room controllers.RoomView
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, uint(4), room.ID)
	assert.Equal(t, "250000", room.Price.String())

	code, env = do(t, r, http.MethodPatch, "/api/rooms/4", gin.H{"price": "275000", "code": "1111"})
	require.Equal(t, http.StatusOK, code, env.Error)

	code, _ = do(t, r, http.MethodDelete, "/api/rooms/4", nil, controllers.AuthCodeHeader, "9999")
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, r, http.MethodGet, "/api/rooms/4", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDashboardAndClear(t *testing.T) {
	r := newTestRouter(t)
	code, _ := do(t, r, http.MethodPost, "/api/rooms/3/checkin", gin.H{"guestName": "Ann"})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, code)
	var sum struct {
		Counts    frontdesk.StatusCounts `json:"counts"`
		Occupancy frontdesk.Occupancy    `json:"occupancy"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 1, sum.Counts.Occupied)
	assert.Equal(t, "33.33", sum.Occupancy.Percent.String())

	code, env = do(t, r, http.MethodGet, "/api/dashboard/revenue?period=week&buckets=2", nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	var rev struct {
		Buckets []frontdesk.Bucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rev))
	require.Len(t, rev.Buckets, 2)
	assert.Equal(t, "300000", rev.Buckets[1].Revenue.String())

	code, _ = do(t, r, http.MethodGet, "/api/dashboard/revenue?period=decade", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = do(t, r, http.MethodPost, "/api/auth/verify", gin.H{"code": "9999"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"role":"administrator"}`, string(env.Data))

	code, _ = do(t, r, http.MethodPost, "/api/data/clear", gin.H{"code": "nope"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = do(t, r, http.MethodPost, "/api/data/clear", gin.H{"code": "9999"})
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/guest-history", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = do(t, r, http.MethodGet, "/api/void-reasons", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "no-show")
}

func TestParseCorsOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseCorsOrigins(""))
	assert.Equal(t, []string{"*"}, parseCorsOrigins(" , "))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, parseCorsOrigins("https://a.example, https://b.example"))
}

func TestRoomStatusFilter(t *testing.T) {
	r := newTestRouter(t)
	code, _ := do(t, r, http.MethodPost, "/api/rooms/1/checkin", gin.H{})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, r, http.MethodGet, "/api/rooms?status=occupied", nil)
	require.Equal(t, http.StatusOK, code)
	var rooms []controllers.RoomView
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].Number)

	code, _ = do(t, r, http.MethodGet, "/api/rooms?status=broken", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}
