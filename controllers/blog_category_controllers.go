package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

type BlogCategoryController struct {
	DB *gorm.DB
}

func NewBlogCategoryController(db *gorm.DB) *BlogCategoryController {
	return &BlogCategoryController{DB: db}
}

// GetAllCategories
func (bcc *BlogCategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.BlogCategory
	if err := bcc.DB.Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All blog categories", categories)
}

// CreateCategory
func (bcc *BlogCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.BlogCategory{
		Name:        body.Name,
		Description: body.Description,
	}
	if err := bcc.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("ten danh muc da ton tai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (bcc *BlogCategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseIDParam(c, "category_id")
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

	var category models.BlogCategory
	if err := bcc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != "" {
		category.Name = body.Name
	}
	if body.Description != "" {
		category.Description = body.Description
	}

	if err := bcc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory
func (bcc *BlogCategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseIDParam(c, "category_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bcc.DB.Delete(&models.BlogCategory{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
