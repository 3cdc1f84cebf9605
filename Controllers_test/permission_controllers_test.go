package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/controllers"
	"github.com/carelinkvn/clinic-app/models"
)

func setupPermissionRouter(dbName string) (*gorm.DB, *gin.Engine) {
	db := newControllerTestDB(dbName)

	r := gin.New()
	permCtrl := controllers.NewPermissionController(db)
	r.POST("/api/v1/permissions", permCtrl.CreatePermission)
	r.GET("/api/v1/permissions", permCtrl.GetAllPermissions)
	r.GET("/api/v1/permissions/:permission_id", permCtrl.GetPermissionByID)
	r.PUT("/api/v1/permissions/:permission_id", permCtrl.UpdatePermission)
	r.DELETE("/api/v1/permissions/:permission_id", permCtrl.DeletePermission)
	return db, r
}

func TestCreatePermission(t *testing.T) {
	_, router := setupPermissionRouter("ctrlperm")

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "reports.view",
		"description": "Xem bao cao doanh thu",
	})
	req, _ := http.NewRequest("POST", "/api/v1/permissions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "reports.view", data["name"])
	assert.Equal(t, "Xem bao cao doanh thu", data["description"])
}

func TestCreatePermissionDuplicateName(t *testing.T) {
	db, router := setupPermissionRouter("ctrlpermdup")
	assert.NoError(t, db.Create(&models.Permission{Name: "reports.view"}).Error)

	body, _ := json.Marshal(map[string]interface{}{"name": "reports.view"})
	req, _ := http.NewRequest("POST", "/api/v1/permissions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["status"])
	assert.Contains(t, resp["message"], "da ton tai")
}

func TestCreatePermissionRequiresName(t *testing.T) {
	_, router := setupPermissionRouter("ctrlpermname")

	body, _ := json.Marshal(map[string]interface{}{"description": "thieu ten"})
	req, _ := http.NewRequest("POST", "/api/v1/permissions", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPermissionCRUD(t *testing.T) {
	db, router := setupPermissionRouter("ctrlpermcrud")
	perm := models.Permission{Name: "orders.refund", Description: "Hoan tien don hang"}
	assert.NoError(t, db.Create(&perm).Error)

	// chi tiet
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/permissions/%d", perm.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "orders.refund", resp["data"].(map[string]interface{})["name"])

	// cap nhat mo ta
	body, _ := json.Marshal(map[string]interface{}{"description": "Hoan tien giao dich"})
	req, _ = http.NewRequest("PUT", fmt.Sprintf("/api/v1/permissions/%d", perm.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Permission
	assert.NoError(t, db.First(&updated, perm.ID).Error)
	assert.Equal(t, "orders.refund", updated.Name)
	assert.Equal(t, "Hoan tien giao dich", updated.Description)

	// danh sach
	req, _ = http.NewRequest("GET", "/api/v1/permissions", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"].([]interface{}), 1)

	// xoa
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/api/v1/permissions/%d", perm.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	err := db.First(&models.Permission{}, perm.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdatePermissionToExistingName(t *testing.T) {
	db, router := setupPermissionRouter("ctrlpermrename")
	assert.NoError(t, db.Create(&models.Permission{Name: "blogs.manage"}).Error)
	perm := models.Permission{Name: "blogs.review"}
	assert.NoError(t, db.Create(&perm).Error)

	body, _ := json.Marshal(map[string]interface{}{"name": "blogs.manage"})
	req, _ := http.NewRequest("PUT", fmt.Sprintf("/api/v1/permissions/%d", perm.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetPermissionNotFound(t *testing.T) {
	_, router := setupPermissionRouter("ctrlpermmiss")

	req, _ := http.NewRequest("GET", "/api/v1/permissions/99999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
