// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/peaknote/transcript-service/internal/service"
)

// AdminHandler exposes the operational endpoints: user sync, bulk
// subscription setup and teardown, and the live subscription inventory.
type AdminHandler struct {
	subscriptionService *service.SubscriptionService
	userSyncService     *service.UserSyncService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	subscriptionService *service.SubscriptionService,
	userSyncService *service.UserSyncService,
) *AdminHandler {
	return &AdminHandler{
		subscriptionService: subscriptionService,
		userSyncService:     userSyncService,
	}
}

// HandleSyncUsers pulls the directory and upserts every user.
//
// POST /api/v1/admin/users/sync
func (h *AdminHandler) HandleSyncUsers(c *gin.Context) {
	synced, err := h.userSyncService.SyncUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced})
}

// HandleSubscribeAllUsers registers a calendar event watch for every tracked user.
//
// POST /api/v1/admin/subscriptions
func (h *AdminHandler) HandleSubscribeAllUsers(c *gin.Context) {
	if err := h.subscriptionService.CreateSubscriptionsForAllUsers(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": true})
}

// HandleListSubscriptions returns every live watch registration.
//
// GET /api/v1/admin/subscriptions
func (h *AdminHandler) HandleListSubscriptions(c *gin.Context) {
	subs, err := h.subscriptionService.ListAllSubscriptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "count": len(subs)})
}

// HandleDeleteSubscriptions tears down every watch registration.
//
// DELETE /api/v1/admin/subscriptions
func (h *AdminHandler) HandleDeleteSubscriptions(c *gin.Context) {
	deleted, err := h.subscriptionService.DeleteAllSubscriptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
