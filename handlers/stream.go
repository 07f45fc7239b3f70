package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/services/notification"
	"courtbook/utils"
)

const streamPingInterval = 25 * time.Second

// StreamCourtHandler streams slot updates for one court and date.
func StreamCourtHandler(svc notification.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		serveTopic(c, svc, notification.CourtTopic(c.Param("courtID"), c.Param("date")))
	}
}

// StreamFacilityHandler streams slot updates for every court of a facility on
// one date.
func StreamFacilityHandler(svc notification.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		serveTopic(c, svc, notification.FacilityTopic(c.Param("facilityID"), c.Param("date")))
	}
}

func serveTopic(c *gin.Context, svc notification.NotificationService, topic notification.Topic) {
	if err := topic.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation", "invalid subscription", err.Error())
		return
	}

	ctx := c.Request.Context()
	ch := svc.Open(ctx)
	defer ch.Close()
	if err := ch.Subscribe(topic); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "unavailable", "notifications unavailable", err.Error())
		return
	}

	logger := getLogger(c).With(zap.String("topic", topic.String()))
	logger.Debug("stream opened")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("subscribed", gin.H{"topic": topic.String()})
	c.Writer.Flush()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("stream closed by client")
			return
		case event, ok := <-ch.Events():
			if !ok {
				logger.Debug("stream closed by hub")
				return
			}
			c.SSEvent(event.Type, event)
			c.Writer.Flush()
		case <-ping.C:
			c.SSEvent("ping", gin.H{"at": time.Now().Unix()})
			c.Writer.Flush()
		}
	}
}
