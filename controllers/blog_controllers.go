package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

type BlogController struct {
	DB *gorm.DB
}

func NewBlogController(db *gorm.DB) *BlogController {
	return &BlogController{DB: db}
}

// CreateBlog -> dang bai viet; slug tu sinh tu tieu de neu khong gui kem
func (bc *BlogController) CreateBlog(c *gin.Context) {
	var body struct {
		Title        string `json:"title" binding:"required"`
		Slug         string `json:"slug"`
		Content      string `json:"content" binding:"required"`
		ThumbnailURL string `json:"thumbnailUrl"`
		CategoryID   uint   `json:"categoryId" binding:"required"`
		AuthorID     uint   `json:"authorId" binding:"required"`
		Published    bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.BlogCategory
	if err := bc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("danh muc khong ton tai"))
		return
	}
	var author models.User
	if err := bc.DB.First(&author, body.AuthorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tac gia khong ton tai"))
		return
	}

	slug := body.Slug
	if slug == "" {
		slug = utils.Slugify(body.Title)
	}

	blog := models.Blog{
		Title:        body.Title,
		Slug:         slug,
		Content:      body.Content,
		ThumbnailURL: body.ThumbnailURL,
		CategoryID:   body.CategoryID,
		AuthorID:     body.AuthorID,
		Published:    body.Published,
	}
	if err := bc.DB.Create(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("slug da ton tai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	blog.Category = category
	utils.RespondJSON(c, http.StatusCreated, "Blog created", blog)
}

// GetAllBlogs -> loc theo ?published=true va ?category_id=
func (bc *BlogController) GetAllBlogs(c *gin.Context) {
	query := bc.DB.Preload("Category").Order("created_at DESC")

	if published := c.Query("published"); published == "true" {
		query = query.Where("published = ?", true)
	}
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}

	var blogs []models.Blog
	if err := query.Find(&blogs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All blogs", blogs)
}

// GetBlogByID
func (bc *BlogController) GetBlogByID(c *gin.Context) {
	id, err := parseIDParam(c, "blog_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var blog models.Blog
	if err := bc.DB.Preload("Category").First(&blog, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Blog detail", blog)
}

// UpdateBlog
func (bc *BlogController) UpdateBlog(c *gin.Context) {
	id, err := parseIDParam(c, "blog_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Title        string `json:"title"`
		Slug         string `json:"slug"`
		Content      string `json:"content"`
		ThumbnailURL string `json:"thumbnailUrl"`
		CategoryID   *uint  `json:"categoryId"`
		Published    *bool  `json:"published"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var blog models.Blog
	if err := bc.DB.First(&blog, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Title != "" {
		blog.Title = body.Title
	}
	if body.Slug != "" {
		blog.Slug = body.Slug
	}
	if body.Content != "" {
		blog.Content = body.Content
	}
	if body.ThumbnailURL != "" {
		blog.ThumbnailURL = body.ThumbnailURL
	}
	if body.CategoryID != nil {
		var category models.BlogCategory
		if err := bc.DB.First(&category, *body.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("danh muc khong ton tai"))
			return
		}
		blog.CategoryID = *body.CategoryID
	}
	if body.Published != nil {
		blog.Published = *body.Published
	}

	if err := bc.DB.Save(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("slug da ton tai"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Blog updated", blog)
}

// DeleteBlog
func (bc *BlogController) DeleteBlog(c *gin.Context) {
	id, err := parseIDParam(c, "blog_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bc.DB.Delete(&models.Blog{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Blog deleted", gin.H{"blog_id": id})
}
