package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/dispatch"
	"github.com/MikeMC777/ordini-tipografia/internal/httpx"
	"github.com/MikeMC777/ordini-tipografia/internal/notify"
	"github.com/MikeMC777/ordini-tipografia/internal/order"
	"github.com/MikeMC777/ordini-tipografia/internal/pdf"
)

func parsePage(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// report publishes the outcome of an action for the UI to show.
func report(c *gin.Context, q notify.Queue, action string, err error, okMsg string) {
	e := notify.Event{Action: action, Level: notify.LevelSuccess, Message: okMsg}
	if err != nil {
		ae := apperr.From(err)
		e.Level, e.Code, e.Message = notify.LevelError, ae.Code, ae.Message
	}
	if perr := q.Publish(c.Request.Context(), e); perr != nil {
		_ = c.Error(perr)
	}
}

// @Summary	Preview the next order number
// @Tags		orders
// @Produce	json
// @Success	200	{object}	order.NextNumberResponse
// @Router		/orders/next-number [get]
func nextNumberHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.NextOrderNumber(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, order.NextNumberResponse{OrderNumber: n})
	}
}

// @Summary	List orders with their details, newest first
// @Tags		orders
// @Produce	json
// @Param		limit	query	int	false	"page size"
// @Param		offset	query	int	false	"rows to skip"
// @Router		/orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePage(c)
		items, err := svc.ListOrders(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// @Summary	Create a draft order
// @Tags		orders
// @Accept		json
// @Produce	json
// @Param		body	body		order.SaveOrderRequest	true	"order"
// @Success	201		{object}	order.Order
// @Failure	400		{object}	apperr.AppError
// @Failure	409		{object}	apperr.AppError
// @Router		/orders [post]
func createOrderHandler(svc *order.Service, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.SaveOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		in.ID = ""
		o, err := svc.SaveOrder(c.Request.Context(), in)
		if err != nil {
			report(c, q, "order.create", err, "")
			httpx.Fail(c, err)
			return
		}
		report(c, q, "order.create", nil, fmt.Sprintf("Ordine %s salvato", o.OrderNumber))
		c.JSON(http.StatusCreated, o)
	}
}

// @Summary	Replace the print type and all details of an order
// @Tags		orders
// @Accept		json
// @Produce	json
// @Param		id		path		string					true	"order id"
// @Param		body	body		order.SaveOrderRequest	true	"order"
// @Success	200		{object}	order.Order
// @Failure	404		{object}	apperr.AppError
// @Router		/orders/{id} [put]
func updateOrderHandler(svc *order.Service, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.SaveOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		in.ID = c.Param("id")
		o, err := svc.SaveOrder(c.Request.Context(), in)
		if err != nil {
			report(c, q, "order.update", err, "")
			httpx.Fail(c, err)
			return
		}
		report(c, q, "order.update", nil, fmt.Sprintf("Ordine %s aggiornato", o.OrderNumber))
		c.JSON(http.StatusOK, o)
	}
}

// @Summary	Get an order with its details
// @Tags		orders
// @Produce	json
// @Param		id	path		string	true	"order id"
// @Success	200	{object}	order.Order
// @Failure	404	{object}	apperr.AppError
// @Router		/orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary	Render the order PDF
// @Tags		orders
// @Produce	application/pdf
// @Param		id	path	string	true	"order id"
// @Router		/orders/{id}/pdf [get]
func orderPDFHandler(svc *order.Service, r *pdf.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		body, err := r.Render(o)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", o.OrderNumber+".pdf"))
		c.Data(http.StatusOK, "application/pdf", body)
	}
}

// @Summary	Change the order status
// @Tags		orders
// @Accept		json
// @Param		id		path	string						true	"order id"
// @Param		body	body	order.UpdateStatusRequest	true	"status"
// @Success	204
// @Router		/orders/{id}/status [put]
func updateStatusHandler(svc *order.Service, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
		report(c, q, "order.status", err, "Stato aggiornato a "+string(in.Status))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary	Delete an order that was never dispatched
// @Tags		orders
// @Param		id	path	string	true	"order id"
// @Success	204
// @Failure	409	{object}	apperr.AppError
// @Router		/orders/{id} [delete]
func deleteOrderHandler(svc *order.Service, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.DeleteOrder(c.Request.Context(), c.Param("id"))
		report(c, q, "order.delete", err, "Ordine eliminato")
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary	Upload the order PDF and send it to typographies
// @Tags		dispatch
// @Accept		json
// @Produce	json
// @Param		id		path		string				true	"order id"
// @Param		body	body		dispatch.Request	true	"recipients"
// @Success	200		{object}	dispatch.Result
// @Failure	502		{object}	apperr.AppError
// @Router		/orders/{id}/dispatch [post]
func dispatchOrderHandler(d *dispatch.Dispatcher, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dispatch.Request
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		in.OrderID = c.Param("id")
		res, err := d.Dispatch(c.Request.Context(), in)
		if err != nil {
			report(c, q, "order.dispatch", err, "")
			if res == nil {
				httpx.Fail(c, err)
				return
			}
			// The sends were recorded; hand them back alongside the error.
			ae := apperr.From(err)
			_ = c.Error(err)
			c.JSON(ae.HTTPStatus, gin.H{"code": ae.Code, "error": ae.Message, "result": res})
			return
		}
		report(c, q, "order.dispatch", nil, fmt.Sprintf("Ordine %s inviato a %d tipografie", res.OrderNumber, len(res.Sends)))
		c.JSON(http.StatusOK, res)
	}
}

// @Summary	List the typographies an order was sent to, oldest first
// @Tags		dispatch
// @Produce	json
// @Param		id	path		string	true	"order id"
// @Success	200	{array}		dispatch.Send
// @Failure	404	{object}	apperr.AppError
// @Router		/orders/{id}/sends [get]
func listSendsHandler(svc *order.Service, sends dispatch.SendRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		items, err := sends.ListByOrder(c.Request.Context(), o.ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// @Summary	Drain pending notification events
// @Tags		notifications
// @Produce	json
// @Param		max	query	int	false	"max events"
// @Router		/notifications [get]
func notificationsHandler(q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		max, _ := strconv.Atoi(c.DefaultQuery("max", "50"))
		events, err := q.Drain(c.Request.Context(), max)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": events})
	}
}
