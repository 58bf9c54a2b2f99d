package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/videotube/internal/dto"
	"github.com/prperemyshlev/videotube/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	channelID, ok := idParam(c, "channelId")
	if !ok {
		return
	}

	subscribed, err := h.subscriptionService.Toggle(c.Request.Context(), userID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	respond(c, http.StatusOK, message, dto.SubscriptionStatus{IsSubscribed: subscribed})
}

func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := idParam(c, "channelId")
	if !ok {
		return
	}

	subscribers, err := h.subscriptionService.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Subscribers fetched successfully", subscribers)
}

func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, ok := idParam(c, "subscriberId")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Subscribed channels fetched successfully", channels)
}
