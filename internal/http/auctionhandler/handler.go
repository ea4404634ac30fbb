package auctionhandler

import (
	"errors"
	"net/http"

	"artmart/internal/services/auction"
	"artmart/internal/services/item"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc auction.IAuctionService
}

func New(svc auction.IAuctionService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/api/auctions", h.list)
	r.POST("/api/auctions", h.createWithExistingItem)
	r.POST("/api/auctions/with-item", h.createWithNewItem)
	r.GET("/api/auctions/:id", h.get)
	r.PUT("/api/auctions/:id", h.update)
	r.DELETE("/api/auctions/:id", h.remove)
}

// writeError maps the service error taxonomy onto HTTP statuses. Policy
// rejections carry their message through verbatim.
func writeError(c *gin.Context, err error) {
	var (
		fieldErr      *auction.FieldError
		transitionErr *auction.TransitionError
	)
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound), errors.Is(err, item.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrEnded),
		errors.Is(err, auction.ErrScheduleFrozen),
		errors.Is(err, auction.ErrItemAlreadyAuctioned),
		errors.Is(err, auction.ErrAlreadyStarted),
		errors.As(err, &fieldErr),
		errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func auctionID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "auction not found"})
		return "", false
	}
	return id.String(), true
}

// @Summary		List auctions
// @Description	Paginated auction listing, newest updates first. Out-of-range page/pageSize values are clamped. includeItem=true expands the nested item; otherwise a light summary row is returned.
// @Tags			Auctions
// @Param			status		query		string	false	"Status filter"	Enums(Draft,Scheduled,Live,Ended,ReserveNotMet,Cancelled,Settled)
// @Param			includeItem	query		bool	false	"Expand nested item"	default(false)
// @Param			page		query		int		false	"Page (1-based)"		minimum(1)	default(1)
// @Param			pageSize	query		int		false	"Page size (1-100)"		minimum(1)	maximum(100)	default(20)
// @Param			search		query		string	false	"Item title/description substring"
// @Success		200			{array}		auction.AuctionSummaryDTO
// @Failure		400			{object}	ErrorResponse
// @Failure		500			{object}	ErrorResponse
// @Router			/api/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	q.clamp()
	var status auction.Status
	if q.Status != "" {
		st, err := auction.ParseStatus(q.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		status = st
	}
	listQ := auction.ListQuery{
		Status: status,
		Search: q.Search,
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	if q.IncludeItem {
		out, err := h.svc.ListAuctions(c.Request.Context(), listQ)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	out, err := h.svc.ListAuctionSummaries(c.Request.Context(), listQ)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get auction details
// @Description	Returns the auction with its nested item.
// @Tags			Auctions
// @Param			id	path		string	true	"Auction ID"
// @Success		200	{object}	auction.AuctionDTO
// @Failure		404	{object}	ErrorResponse
// @Router			/api/auctions/{id} [get]
func (h *Handler) get(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	dto, err := h.svc.GetAuction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Create an auction together with a new item
// @Tags			Auctions
// @Param			body	body		CreateAuctionWithNewItemBody	true	"Auction + item payload"
// @Success		201		{object}	auction.AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Router			/api/auctions/with-item [post]
func (h *Handler) createWithNewItem(c *gin.Context) {
	var body CreateAuctionWithNewItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	in := createInput(body.SellerID, body.SellerDisplayName, body.StartingPrice,
		body.ReservePrice, body.BuyNowPrice, body.MinimumBidIncrement, body.Currency,
		body.StartsAt, body.EndsAt, body.Status)
	dto, err := h.svc.CreateWithNewItem(c.Request.Context(), in, body.Item.ToCreateInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// @Summary		Create an auction for an existing item
// @Tags			Auctions
// @Param			body	body		CreateAuctionWithExistingItemBody	true	"Auction payload"
// @Success		201		{object}	auction.AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Router			/api/auctions [post]
func (h *Handler) createWithExistingItem(c *gin.Context) {
	var body CreateAuctionWithExistingItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	in := createInput(body.SellerID, body.SellerDisplayName, body.StartingPrice,
		body.ReservePrice, body.BuyNowPrice, body.MinimumBidIncrement, body.Currency,
		body.StartsAt, body.EndsAt, body.Status)
	dto, err := h.svc.CreateWithExistingItem(c.Request.Context(), in, body.ItemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// @Summary		Update an auction
// @Description	Applies the patch subject to the mutability rules: nothing changes after the end time, schedule and pricing freeze once the auction starts, and only the listed status transitions are legal.
// @Tags			Auctions
// @Param			id		path		string				true	"Auction ID"
// @Param			body	body		UpdateAuctionBody	true	"Patch payload"
// @Success		200		{object}	auction.AuctionDTO
// @Failure		400		{object}	ErrorResponse
// @Failure		404		{object}	ErrorResponse
// @Failure		409		{object}	ErrorResponse
// @Router			/api/auctions/{id} [put]
func (h *Handler) update(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	var body UpdateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	patch, err := body.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	dto, err := h.svc.UpdateAuction(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// @Summary		Delete an auction
// @Description	Allowed only before the auction's start time.
// @Tags			Auctions
// @Param			id	path	string	true	"Auction ID"
// @Success		204
// @Failure		400	{object}	ErrorResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/api/auctions/{id} [delete]
func (h *Handler) remove(c *gin.Context) {
	id, ok := auctionID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAuction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
