package itemhandler

import (
	"errors"
	"net/http"

	"artmart/internal/services/item"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc item.IItemService
}

func New(svc item.IItemService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/items", h.list)
	r.POST("/api/items", h.create)
	r.GET("/api/items/:id", h.get)
	r.PUT("/api/items/:id", h.update)
	r.DELETE("/api/items/:id", h.remove)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, item.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, item.ErrAlreadyPublished), errors.Is(err, item.ErrLinkedToAuction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// itemID validates the path parameter; a malformed id can never match a row.
func itemID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "item not found"})
		return "", false
	}
	return id.String(), true
}

// @Summary		List items
// @Description	Paginated catalog listing with optional title/description search. Out-of-range page/pageSize values are clamped.
// @Tags			Items
// @Param			page		query		int		false	"Page (1-based)"		minimum(1)	default(1)
// @Param			pageSize	query		int		false	"Page size (1-100)"		minimum(1)	maximum(100)	default(20)
// @Param			search		query		string	false	"Title/description substring"
// @Success		200			{array}		item.ItemDTO
// @Failure		400			{object}	ErrorResponse
// @Router			/api/items [get]
func (h *Handler) list(c *gin.Context) {
	var q ListItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	q.clamp()
	out, err := h.svc.ListItems(c.Request.Context(), item.ListItemsQuery{
		Search: q.Search,
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get item details
// @Tags			Items
// @Param			id	path		string	true	"Item ID"
// @Success		200	{object}	item.ItemDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/api/items/{id} [get]
func (h *Handler) get(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	dto, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Register a new artwork
// @Description	Creates a catalog item. Media descriptors are fixed at creation.
// @Tags			Items
// @Param			body	body		CreateItemBody	true	"Item payload"
// @Success		201		{object}	item.ItemDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/api/items [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	dto, err := h.svc.CreateItem(c.Request.Context(), body.ToCreateInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// @Summary		Update item display metadata
// @Description	Only title, description, collection, previews, tags and attributes may change. publish=true moves a Draft item to Published.
// @Tags			Items
// @Param			id		path		string			true	"Item ID"
// @Param			body	body		UpdateItemBody	true	"Patch payload"
// @Success		200		{object}	item.ItemDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/api/items/{id} [put]
func (h *Handler) update(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var body UpdateItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	dto, err := h.svc.UpdateItem(c.Request.Context(), id, body.toPatch())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Delete an item
// @Description	Refused while the item is linked to an auction.
// @Tags			Items
// @Param			id	path	string	true	"Item ID"
// @Success		204
// @Failure		400	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/api/items/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
