package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelinkvn/clinic-app/services"
	"github.com/carelinkvn/clinic-app/utils"
)

type PaymentController struct {
	paymentService *services.PaymentService
	scheduler      services.CancellationScheduler
}

func NewPaymentController(paymentService *services.PaymentService, scheduler services.CancellationScheduler) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		scheduler:      scheduler,
	}
}

// HandleWebhook -> nhan callback trang thai giao dich tu SePay.
// Chu ky lay tu header x-sepay-signature, body giu nguyen byte de
// luu snapshot va de ky khop voi ben gui.
func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	signature := c.GetHeader("x-sepay-signature")

	payment, err := pc.paymentService.HandleWebhook(c.Request.Context(), rawBody, signature)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if payment == nil {
		// webhook duoc ghi nhan nhung khong doi trang thai
		utils.RespondJSON(c, http.StatusOK, "Webhook received", nil)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Webhook processed", payment)
}

// GetPaymentByID
func (pc *PaymentController) GetPaymentByID(c *gin.Context) {
	id, err := parseIDParam(c, "payment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.paymentService.GetPayment(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// CancelPayment -> huy tay mot giao dich con PENDING
func (pc *PaymentController) CancelPayment(c *gin.Context) {
	id, err := parseIDParam(c, "payment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.paymentService.CancelPayment(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment cancelled", payment)
}

// GetReceipt -> hoa don cua giao dich da SUCCESS
func (pc *PaymentController) GetReceipt(c *gin.Context) {
	id, err := parseIDParam(c, "payment_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	receipt, err := pc.paymentService.Receipt(id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Receipt", receipt)
}

// GetQueueStatus -> so luong task huy theo tung nhom vong doi
func (pc *PaymentController) GetQueueStatus(c *gin.Context) {
	status, err := pc.scheduler.Status()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Queue status", status)
}

// ClearQueue -> loi thoat khan cap cua quan tri, xoa sach task cho
func (pc *PaymentController) ClearQueue(c *gin.Context) {
	deleted, err := pc.scheduler.ClearAll()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Quan tri vien xoa %d task khoi queue payments", deleted)
	utils.RespondJSON(c, http.StatusOK, "Queue cleared", gin.H{"deleted": deleted})
}
