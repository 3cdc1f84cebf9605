package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/services"
	"github.com/carelinkvn/clinic-app/utils"
)

type AdminController struct {
	DB        *gorm.DB
	scheduler services.CancellationScheduler
}

func NewAdminController(db *gorm.DB, scheduler services.CancellationScheduler) *AdminController {
	return &AdminController{DB: db, scheduler: scheduler}
}

type dashboardStats struct {
	TotalOrders  int64           `json:"totalOrders"`
	TodayOrders  int64           `json:"todayOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TodayRevenue decimal.Decimal `json:"todayRevenue"`
	OrderStats   struct {
		Pending   int64 `json:"pending"`
		Paid      int64 `json:"paid"`
		Cancelled int64 `json:"cancelled"`
		Expired   int64 `json:"expired"`
	} `json:"orderStats"`
	PaymentStats struct {
		Pending int64 `json:"pending"`
		Success int64 `json:"success"`
	} `json:"paymentStats"`
	Queue services.QueueStatus `json:"queue"`
}

// GetDashboardStats -> so lieu tong quan cho man hinh quan tri
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats dashboardStats

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.OrderStats.Pending)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPaid).Count(&stats.OrderStats.Paid)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&stats.OrderStats.Cancelled)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusExpired).Count(&stats.OrderStats.Expired)

	ac.DB.Model(&models.PaymentTransaction{}).Where("status = ?", models.PaymentStatusPending).Count(&stats.PaymentStats.Pending)
	ac.DB.Model(&models.PaymentTransaction{}).Where("status = ?", models.PaymentStatusSuccess).Count(&stats.PaymentStats.Success)

	// doanh thu tinh tren giao dich SUCCESS, giu nguyen decimal
	ac.DB.Model(&models.PaymentTransaction{}).
		Where("status = ?", models.PaymentStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&stats.TotalRevenue)

	ac.DB.Model(&models.PaymentTransaction{}).
		Where("status = ? AND DATE(paid_at) = ?", models.PaymentStatusSuccess, today).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&stats.TodayRevenue)

	queue, err := ac.scheduler.Status()
	if err != nil {
		utils.ErrorLogger.Printf("Doc trang thai queue that bai: %v", err)
	}
	stats.Queue = queue

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
