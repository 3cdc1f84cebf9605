package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/carelinkvn/clinic-app/realtime"
	"github.com/carelinkvn/clinic-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type RealtimeController struct{}

func NewRealtimeController() *RealtimeController {
	return &RealtimeController{}
}

// HandlePaymentSocket -> nang cap ket noi va dang ky client vao hub.
// Client chi nhan su kien, moi tin nhan gui len deu bi bo qua.
func (rc *RealtimeController) HandlePaymentSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Nang cap websocket that bai: %v", err)
		return
	}

	realtime.RegisterClient(conn)
	utils.InfoLogger.Printf("Websocket client %s da ket noi", conn.RemoteAddr())

	go func() {
		defer realtime.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
