package controllers

import (
	"net/http"
	"strconv"

	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	FrontDesk *services.FrontDeskService
}

func NewDashboardController(fd *services.FrontDeskService) *DashboardController {
	return &DashboardController{FrontDesk: fd}
}

// GET /api/dashboard/summary
func (dc *DashboardController) GetSummary(c *gin.Context) {
	sum := dc.FrontDesk.Summary()
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"businessDate": sum.BusinessDate,
		"counts":       sum.Counts,
		"occupancy":    sum.Occupancy,
		"checkoutDue":  roomViews(sum.CheckoutDue),
		"revenueToday": sum.RevenueToday,
	})
}

// GET /api/dashboard/revenue?period=week&buckets=4
func (dc *DashboardController) GetRevenue(c *gin.Context) {
	period, err := frontdesk.ParsePeriod(c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	buckets := 0
	if raw := c.Query("buckets"); raw != "" {
		buckets, err = strconv.Atoi(raw)
		if err != nil {
			utils.JSONValidation(c, map[string]string{"buckets": "number"})
			return
		}
		if buckets == 0 {
			utils.JSONValidation(c, map[string]string{"buckets": "min=1"})
			return
		}
	}
	series, err := dc.FrontDesk.Revenue(period, buckets)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"period": period, "buckets": series})
}
