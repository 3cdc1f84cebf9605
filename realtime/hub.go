package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/carelinkvn/clinic-app/models"
)

// Event types
const (
	EventOrderCreated     = "order_created"
	EventOrderUpdate      = "order_update"
	EventPaymentSuccess   = "payment_success"
	EventPaymentExpired   = "payment_expired"
	EventPaymentCancelled = "payment_cancelled"
	EventOpsNotification  = "ops_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// PaymentEvent la du lieu kem theo moi su kien thanh toan
type PaymentEvent struct {
	PaymentID       uint   `json:"paymentId"`
	OrderID         uint   `json:"orderId"`
	OrderCode       string `json:"orderCode,omitempty"`
	TransactionCode string `json:"transactionCode,omitempty"`
	Status          string `json:"status"`
}

// Hub giu cac ket noi websocket dang theo doi trang thai thanh toan
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]struct{}),
}

// RegisterClient -> them connection vao hub
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = struct{}{}
}

// UnregisterClient -> go connection va dong lai
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated -> don hang moi duoc tao
func BroadcastOrderCreated(order *models.Order) {
	broadcast(Message{
		Event: EventOrderCreated,
		Data:  order,
	})
}

// BroadcastOrderUpdate -> don hang thay doi trang thai/noi dung
func BroadcastOrderUpdate(order *models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastPaymentSuccess -> giao dich duoc gateway xac nhan
func BroadcastPaymentSuccess(ev PaymentEvent) {
	broadcast(Message{
		Event: EventPaymentSuccess,
		Data:  ev,
	})
}

// BroadcastPaymentExpired -> giao dich qua han bi huy tu dong
func BroadcastPaymentExpired(ev PaymentEvent) {
	broadcast(Message{
		Event: EventPaymentExpired,
		Data:  ev,
	})
}

// BroadcastPaymentCancelled -> giao dich bi huy tay
func BroadcastPaymentCancelled(ev PaymentEvent) {
	broadcast(Message{
		Event: EventPaymentCancelled,
		Data:  ev,
	})
}

// BroadcastOpsNotification -> canh bao van hanh cho man hinh quan tri
func BroadcastOpsNotification(notif *models.Notification) {
	broadcast(Message{
		Event: EventOpsNotification,
		Data:  notif,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
