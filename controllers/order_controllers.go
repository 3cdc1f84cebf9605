package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/services"
	"github.com/carelinkvn/clinic-app/utils"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder -> tao don hang moi voi cac muc chi phi va giao dich PENDING
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	resp, err := oc.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", resp)
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orderService.GetOrder(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderByCode -> tra cuu theo ma don hang hien thi cho benh nhan
func (oc *OrderController) GetOrderByCode(c *gin.Context) {
	code := c.Param("order_code")

	order, err := oc.orderService.GetOrderByCode(code)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrdersByUser -> danh sach don hang cua benh nhan, moi nhat truoc
func (oc *OrderController) GetOrdersByUser(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.orderService.GetOrdersByUser(userID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders of user", orders)
}

// UpdateOrder -> sua ghi chu/trang thai; don PAID la bat bien
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Notes       *string `json:"notes"`
		OrderStatus *string `json:"orderStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orderService.UpdateOrder(id, repository.OrderPatch{
		Notes:  body.Notes,
		Status: body.OrderStatus,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// CancelOrder -> huy don khi giao dich con PENDING
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orderService.CancelOrder(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
