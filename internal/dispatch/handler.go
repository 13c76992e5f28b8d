package dispatch

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/httpx"
)

// Handler serves POST /functions/send-order-email.
//
//	@Summary	Resolve recipients and call the e-mail webhook
//	@Tags		dispatch
//	@Accept		json
//	@Produce	json
//	@Param		body	body		Notification	true	"notification"
//	@Success	200		{object}	map[string]bool
//	@Failure	400		{object}	apperr.AppError
//	@Failure	500		{object}	apperr.AppError
//	@Failure	502		{object}	apperr.AppError
//	@Router		/functions/send-order-email [post]
func Handler(n Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in Notification
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("missing or invalid body"))
			return
		}
		if err := n.Notify(c.Request.Context(), in); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
