package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

type AppointmentController struct {
	DB *gorm.DB
}

func NewAppointmentController(db *gorm.DB) *AppointmentController {
	return &AppointmentController{DB: db}
}

var validAppointmentStatuses = map[string]bool{
	models.AppointmentStatusPendingPayment: true,
	models.AppointmentStatusPaid:           true,
	models.AppointmentStatusCompleted:      true,
	models.AppointmentStatusCancelled:      true,
}

// CreateAppointment -> dat lich kham; benh nhan va dich vu phai ton tai
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var body struct {
		UserID     uint      `json:"userId" binding:"required"`
		ServiceID  uint      `json:"serviceId" binding:"required"`
		DoctorName string    `json:"doctorName"`
		StartTime  time.Time `json:"startTime" binding:"required"`
		Notes      string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.First(&user, body.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("benh nhan khong ton tai"))
		return
	}
	var svc models.MedicalService
	if err := ac.DB.First(&svc, body.ServiceID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("dich vu khong ton tai"))
		return
	}

	appt := models.Appointment{
		UserID:     body.UserID,
		ServiceID:  body.ServiceID,
		DoctorName: body.DoctorName,
		StartTime:  body.StartTime,
		Status:     models.AppointmentStatusPendingPayment,
		Notes:      body.Notes,
	}
	if err := ac.DB.Create(&appt).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	appt.User = user
	appt.Service = svc
	utils.RespondJSON(c, http.StatusCreated, "Appointment created", appt)
}

// GetAppointmentByID
func (ac *AppointmentController) GetAppointmentByID(c *gin.Context) {
	id, err := parseIDParam(c, "appointment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var appt models.Appointment
	if err := ac.DB.Preload("User").Preload("Service").First(&appt, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Appointment detail", appt)
}

// GetAppointmentsByUser -> lich kham cua mot benh nhan, moi nhat truoc
func (ac *AppointmentController) GetAppointmentsByUser(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var appts []models.Appointment
	if err := ac.DB.Preload("Service").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&appts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Appointments of user", appts)
}

// UpdateAppointmentStatus -> doi trang thai lich kham thu cong
func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	id, err := parseIDParam(c, "appointment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validAppointmentStatuses[body.Status] {
		utils.RespondError(c, http.StatusBadRequest, errors.New("trang thai khong hop le"))
		return
	}

	var appt models.Appointment
	if err := ac.DB.First(&appt, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	appt.Status = body.Status
	if err := ac.DB.Save(&appt).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Appointment status updated", appt)
}
