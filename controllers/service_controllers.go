package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

type ServiceController struct {
	DB *gorm.DB
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{DB: db}
}

// CreateService -> them dich vu kham/chua benh moi
func (sc *ServiceController) CreateService(c *gin.Context) {
	var body struct {
		Name            string          `json:"name" binding:"required"`
		Description     string          `json:"description"`
		Price           decimal.Decimal `json:"price"`
		DurationMinutes int             `json:"durationMinutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("gia dich vu khong duoc am"))
		return
	}

	svc := models.MedicalService{
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		DurationMinutes: body.DurationMinutes,
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = 30
	}

	if err := sc.DB.Create(&svc).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service created", svc)
}

// GetAllServices
func (sc *ServiceController) GetAllServices(c *gin.Context) {
	var services []models.MedicalService
	if err := sc.DB.Find(&services).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All services", services)
}

// GetServiceByID
func (sc *ServiceController) GetServiceByID(c *gin.Context) {
	id, err := parseIDParam(c, "service_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var svc models.MedicalService
	if err := sc.DB.First(&svc, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service detail", svc)
}

// UpdateService
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, err := parseIDParam(c, "service_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Name            string           `json:"name"`
		Description     string           `json:"description"`
		Price           *decimal.Decimal `json:"price"`
		DurationMinutes *int             `json:"durationMinutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var svc models.MedicalService
	if err := sc.DB.First(&svc, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != "" {
		svc.Name = body.Name
	}
	if body.Description != "" {
		svc.Description = body.Description
	}
	if body.Price != nil && !body.Price.IsNegative() {
		svc.Price = *body.Price
	}
	if body.DurationMinutes != nil && *body.DurationMinutes > 0 {
		svc.DurationMinutes = *body.DurationMinutes
	}

	if err := sc.DB.Save(&svc).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service updated", svc)
}

// DeleteService
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, err := parseIDParam(c, "service_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := sc.DB.Delete(&models.MedicalService{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service deleted", gin.H{"service_id": id})
}
