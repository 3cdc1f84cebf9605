package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

type PermissionController struct {
	DB *gorm.DB
}

func NewPermissionController(db *gorm.DB) *PermissionController {
	return &PermissionController{DB: db}
}

// CreatePermission -> them quyen moi cho giao dien quan tri
func (pc *PermissionController) CreatePermission(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	perm := models.Permission{
		Name:        body.Name,
		Description: body.Description,
	}
	if err := pc.DB.Create(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("ten quyen da ton tai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Permission created", perm)
}

// GetAllPermissions
func (pc *PermissionController) GetAllPermissions(c *gin.Context) {
	var perms []models.Permission
	if err := pc.DB.Find(&perms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All permissions", perms)
}

// GetPermissionByID
func (pc *PermissionController) GetPermissionByID(c *gin.Context) {
	id, err := parseIDParam(c, "permission_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var perm models.Permission
	if err := pc.DB.First(&perm, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Permission detail", perm)
}

// UpdatePermission
func (pc *PermissionController) UpdatePermission(c *gin.Context) {
	id, err := parseIDParam(c, "permission_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var perm models.Permission
	if err := pc.DB.First(&perm, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != "" {
		perm.Name = body.Name
	}
	if body.Description != "" {
		perm.Description = body.Description
	}

	if err := pc.DB.Save(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("ten quyen da ton tai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Permission updated", perm)
}

// DeletePermission
func (pc *PermissionController) DeletePermission(c *gin.Context) {
	id, err := parseIDParam(c, "permission_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Delete(&models.Permission{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Permission deleted", gin.H{"permission_id": id})
}
