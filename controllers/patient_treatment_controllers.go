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

type PatientTreatmentController struct {
	DB *gorm.DB
}

func NewPatientTreatmentController(db *gorm.DB) *PatientTreatmentController {
	return &PatientTreatmentController{DB: db}
}

// CreateTreatment -> mo dot dieu tri theo phac do cho benh nhan
func (tc *PatientTreatmentController) CreateTreatment(c *gin.Context) {
	var body struct {
		UserID    uint      `json:"userId" binding:"required"`
		Protocol  string    `json:"protocol" binding:"required"`
		StartDate time.Time `json:"startDate" binding:"required"`
		Notes     string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := tc.DB.First(&user, body.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("benh nhan khong ton tai"))
		return
	}

	treatment := models.PatientTreatment{
		UserID:    body.UserID,
		Protocol:  body.Protocol,
		StartDate: body.StartDate,
		Status:    models.TreatmentStatusActive,
		Notes:     body.Notes,
	}
	if err := tc.DB.Create(&treatment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	treatment.User = user
	utils.RespondJSON(c, http.StatusCreated, "Treatment created", treatment)
}

// GetTreatmentByID
func (tc *PatientTreatmentController) GetTreatmentByID(c *gin.Context) {
	id, err := parseIDParam(c, "treatment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var treatment models.PatientTreatment
	if err := tc.DB.Preload("User").First(&treatment, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Treatment detail", treatment)
}

// GetTreatmentsByUser -> cac dot dieu tri cua mot benh nhan
func (tc *PatientTreatmentController) GetTreatmentsByUser(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var treatments []models.PatientTreatment
	if err := tc.DB.Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&treatments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Treatments of user", treatments)
}
