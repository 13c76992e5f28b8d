package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
	"github.com/MikeMC777/ordini-tipografia/internal/httpx"
	"github.com/MikeMC777/ordini-tipografia/internal/notify"
	"github.com/MikeMC777/ordini-tipografia/internal/typography"
)

// @Summary	List typographies by name
// @Tags		typographies
// @Produce	json
// @Success	200	{object}	typography.ListResponse
// @Router		/typographies [get]
func listTypographiesHandler(repo typography.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, typography.ListResponse{Items: items})
	}
}

// @Summary	Get a typography
// @Tags		typographies
// @Produce	json
// @Param		id	path		string	true	"typography id"
// @Success	200	{object}	typography.Typography
// @Failure	404	{object}	apperr.AppError
// @Router		/typographies/{id} [get]
func getTypographyHandler(repo typography.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary	Create a typography
// @Tags		typographies
// @Accept		json
// @Produce	json
// @Param		body	body		typography.SaveRequest	true	"typography"
// @Success	201		{object}	typography.Typography
// @Failure	400		{object}	apperr.AppError
// @Router		/typographies [post]
func createTypographyHandler(repo typography.Repository, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in typography.SaveRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		t, err := typography.FromRequest("", in)
		if err == nil {
			err = repo.Create(c.Request.Context(), t)
		}
		if err != nil {
			report(c, q, "typography.create", err, "")
			httpx.Fail(c, err)
			return
		}
		report(c, q, "typography.create", nil, "Tipografia "+t.Name+" creata")
		c.JSON(http.StatusCreated, t)
	}
}

// @Summary	Update a typography
// @Tags		typographies
// @Accept		json
// @Produce	json
// @Param		id		path		string					true	"typography id"
// @Param		body	body		typography.SaveRequest	true	"typography"
// @Success	200		{object}	typography.Typography
// @Router		/typographies/{id} [put]
func updateTypographyHandler(repo typography.Repository, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in typography.SaveRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Fail(c, apperr.Validation("invalid json: %v", err))
			return
		}
		t, err := typography.FromRequest(c.Param("id"), in)
		if err == nil {
			err = repo.Update(c.Request.Context(), t)
		}
		if err != nil {
			report(c, q, "typography.update", err, "")
			httpx.Fail(c, err)
			return
		}
		report(c, q, "typography.update", nil, "Tipografia "+t.Name+" aggiornata")
		c.JSON(http.StatusOK, t)
	}
}

// @Summary	Delete a typography
// @Tags		typographies
// @Param		id	path	string	true	"typography id"
// @Success	204
// @Router		/typographies/{id} [delete]
func deleteTypographyHandler(repo typography.Repository, q notify.Queue) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err == nil && !ok {
			err = typography.ErrNotFound
		}
		report(c, q, "typography.delete", err, "Tipografia eliminata")
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
