package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"hotel-frontdesk/controllers"
	"hotel-frontdesk/middleware"
)

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type Controllers struct {
	Rooms        *controllers.RoomController
	GuestHistory *controllers.GuestHistoryController
	Dashboard    *controllers.DashboardController
	Settings     *controllers.SettingsController
	Health       gin.HandlerFunc
}

// SetupRouter wires the HTTP surface. board may be nil, in which case /ws/board is not served.
func SetupRouter(ctl Controllers, board *melody.Melody, corsOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger())

	origins := parseCorsOrigins(corsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", controllers.AuthCodeHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", ctl.Health)

	if board != nil {
		r.GET("/ws/board", func(c *gin.Context) {
			board.HandleRequest(c.Writer, c.Request)
		})
	}

	api := r.Group("/api")
	{
		rc := ctl.Rooms
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)
			rooms.POST("/clean", rc.BulkClean)
			rooms.GET("/:id", rc.GetRoom)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)

			rooms.POST("/:id/checkin", rc.CheckIn)
			rooms.POST("/:id/checkout", rc.CheckOut)
			rooms.POST("/:id/clean", rc.MarkCleaned)
			rooms.POST("/:id/extend", rc.ExtendStay)
			rooms.POST("/:id/move", rc.MoveRoom)
			rooms.POST("/:id/reserve", rc.Reserve)
			rooms.POST("/:id/reservation/confirm", rc.ConfirmReservation)
			rooms.POST("/:id/reservation/cancel", rc.CancelReservation)
		}

		hc := ctl.GuestHistory
		history := api.Group("/guest-history")
		{
			history.GET("", hc.GetGuestHistory)
			history.GET("/:id", hc.GetGuestHistoryByID)
			history.POST("/:id/void", hc.VoidGuestHistory)
		}

		dc := ctl.Dashboard
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", dc.GetSummary)
			dashboard.GET("/revenue", dc.GetRevenue)
		}

		sc := ctl.Settings
		api.POST("/auth/verify", sc.VerifyCode)
		api.POST("/data/clear", sc.ClearAllData)
		api.GET("/void-reasons", sc.GetVoidReasons)
		api.GET("/room-types", sc.GetRoomTypes)
	}

	return r
}
