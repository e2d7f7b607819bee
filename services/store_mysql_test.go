package services

import (
	"context"
	"testing"
	"time"

	"hotel-frontdesk/config"
	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcMySQL "github.com/testcontainers/testcontainers-go/modules/mysql"
	"gorm.io/datatypes"
)

// newMySQLStore starts a throwaway MySQL and connects through the same DSN path as main.
func newMySQLStore(t *testing.T, loc *time.Location) *GormStore {
	t.Helper()
	if testing.Short() {
		t.Skip("needs a MySQL container")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	ctr, err := tcMySQL.Run(ctx, "mysql:8.0",
		tcMySQL.WithDatabase("frontdesk_test"),
		tcMySQL.WithUsername("desk"),
		tcMySQL.WithPassword("desk"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	t.Setenv("MYSQL_URL", dsn)
	t.Setenv("DATABASE_URL", "")

	db, err := config.ConnectDatabase(config.Config{Env: "test", Location: loc})
	require.NoError(t, err)
	return NewGormStore(db)
}

func day(d datatypes.Date, loc *time.Location) string {
	return time.Time(d).In(loc).Format("2006-01-02")
}

func dayPtr(d *datatypes.Date, loc *time.Location) string {
	if d == nil {
		return ""
	}
	return day(*d, loc)
}

func requireSameState(t *testing.T, want, got frontdesk.State, loc *time.Location) {
	t.Helper()
	require.NoError(t, got.Check())

	wantRooms, gotRooms := want.Rooms(), got.Rooms()
	require.Len(t, gotRooms, len(wantRooms))
	for i, w := range wantRooms {
		g := gotRooms[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Number, g.Number)
		assert.Equal(t, w.Floor, g.Floor)
		assert.Equal(t, w.Type, g.Type)
		assert.Equal(t, w.Status, g.Status, "room %s", w.Number)
		assert.True(t, w.Price.Equal(g.Price), "room %s price %s != %s", w.Number, w.Price, g.Price)
		assert.Equal(t, w.GuestName, g.GuestName)
		assert.Equal(t, w.StayDuration, g.StayDuration)
		assert.Equal(t, dayPtr(w.CheckInDate, loc), dayPtr(g.CheckInDate, loc))
		assert.Equal(t, dayPtr(w.ReservationDate, loc), dayPtr(g.ReservationDate, loc))
		assert.Equal(t, w.PaymentStatus, g.PaymentStatus)
	}

	gotLedger := map[string]models.GuestHistory{}
	for _, rec := range got.Ledger() {
		gotLedger[rec.ID.String()] = rec
	}
	require.Len(t, gotLedger, len(want.Ledger()))
	for _, w := range want.Ledger() {
		g, ok := gotLedger[w.ID.String()]
		require.True(t, ok, "record %s missing after reload", w.ID)
		assert.Equal(t, w.RoomNumber, g.RoomNumber)
		assert.Equal(t, w.Status, g.Status)
		assert.Equal(t, w.StayDuration, g.StayDuration)
		assert.True(t, w.TotalPrice.Equal(g.TotalPrice), "record %s total %s != %s", w.ID, w.TotalPrice, g.TotalPrice)
		assert.Equal(t, day(w.CheckInDate, loc), day(g.CheckInDate, loc))
		assert.True(t, w.CheckInTime.Equal(g.CheckInTime), "record %s check-in %s != %s", w.ID, w.CheckInTime, g.CheckInTime)
		assert.Equal(t, dayPtr(w.CheckOutDate, loc), dayPtr(g.CheckOutDate, loc))
		assert.Equal(t, dayPtr(w.VoidDate, loc), dayPtr(g.VoidDate, loc))
		assert.Equal(t, w.VoidReason, g.VoidReason)
		assert.Equal(t, w.VoidBy, g.VoidBy)
	}
}

func TestGormStoreRoundTrip(t *testing.T) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	store := newMySQLStore(t, bangkok)
	ctx := context.Background()

	state, err := LoadState(ctx, store, seedRooms())
	require.NoError(t, err)
	svc := NewFrontDeskService(state, Options{
		Policy:     frontdesk.DefaultPolicy,
		Store:      store,
		Authorizer: testCodes,
		Clock:      clockAt(time.Date(2026, time.October, 19, 12, 0, 0, 0, bangkok)),
	})

	in, err := svc.CheckIn(ctx, frontdesk.CheckInCommand{RoomID: 1, GuestName: strPtr("Somchai"), StayDuration: 2})
	require.NoError(t, err)
	arrival := datatypes.Date(time.Date(2026, time.October, 21, 0, 0, 0, 0, bangkok))
	_, err = svc.Reserve(ctx, frontdesk.ReserveCommand{RoomID: 2, GuestName: strPtr("Kim"), ReservationDate: &arrival})
	require.NoError(t, err)
	added, err := svc.AddRoom(ctx, frontdesk.AddRoomCommand{Number: "103", Floor: 1, Type: models.RoomACDouble}, "9999")
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, frontdesk.CheckInCommand{RoomID: added.ID})
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, 1)
	require.NoError(t, err)
	_, err = svc.CancelReservation(ctx, 2, models.VoidNoShow, "1111")
	require.NoError(t, err)
	price := decimal.RequireFromString("275000.50")
	_, err = svc.UpdateRoom(ctx, frontdesk.UpdateRoomCommand{RoomID: 2, Price: &price}, "9999")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRoom(ctx, 1, "9999"))

	reloaded, err := LoadState(ctx, store, nil)
	require.NoError(t, err)
	requireSameState(t, svc.Snapshot(), reloaded, bangkok)

	rec, ok := reloaded.Record(in.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "2026-10-19", day(rec.CheckInDate, bangkok))
	assert.Equal(t, "2026-10-19", dayPtr(rec.CheckOutDate, bangkok))
	_, ok = reloaded.RoomByNumber("101")
	assert.False(t, ok, "deleted room came back")
	room2, _ := reloaded.Room(2)
	assert.Equal(t, "275000.5", room2.Price.String())

	_, err = svc.ClearAll(ctx, "9999")
	require.NoError(t, err)
	cleared, err := LoadState(ctx, store, seedRooms())
	require.NoError(t, err)
	assert.Empty(t, cleared.Ledger())
	require.Equal(t, 2, cleared.RoomCount(), "a cleared board is not reseeded")
	for _, r := range cleared.Rooms() {
		assert.Equal(t, models.RoomAvailable, r.Status)
	}
	requireSameState(t, svc.Snapshot(), cleared, bangkok)
}
