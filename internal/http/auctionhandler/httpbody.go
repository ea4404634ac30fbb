package auctionhandler

import (
	"time"

	"artmart/internal/http/itemhandler"
	"artmart/internal/services/auction"
)

type CreateAuctionWithNewItemBody struct {
	SellerID            string                      `json:"seller_id" binding:"required,uuid"`
	SellerDisplayName   *string                     `json:"seller_display_name"`
	StartingPrice       float64                     `json:"starting_price"        binding:"gte=0"`
	ReservePrice        *float64                    `json:"reserve_price"         binding:"omitempty,gte=0"`
	BuyNowPrice         *float64                    `json:"buy_now_price"         binding:"omitempty,gte=0"`
	MinimumBidIncrement float64                     `json:"minimum_bid_increment" binding:"omitempty,gt=0"`
	Currency            string                      `json:"currency"              binding:"omitempty,len=3" example:"USD"`
	StartsAt            time.Time                   `json:"starts_at" binding:"required" example:"2025-07-27T16:05:05Z"`
	EndsAt              time.Time                   `json:"ends_at"   binding:"required" example:"2025-07-28T16:05:05Z"`
	Status              string                      `json:"status"    binding:"omitempty,oneof=Draft Scheduled"`
	Item                itemhandler.CreateItemBody  `json:"item"      binding:"required"`
} // @name CreateAuctionWithNewItemRequest

type CreateAuctionWithExistingItemBody struct {
	SellerID            string    `json:"seller_id" binding:"required,uuid"`
	SellerDisplayName   *string   `json:"seller_display_name"`
	ItemID              string    `json:"item_id"   binding:"required,uuid"`
	StartingPrice       float64   `json:"starting_price"        binding:"gte=0"`
	ReservePrice        *float64  `json:"reserve_price"         binding:"omitempty,gte=0"`
	BuyNowPrice         *float64  `json:"buy_now_price"         binding:"omitempty,gte=0"`
	MinimumBidIncrement float64   `json:"minimum_bid_increment" binding:"omitempty,gt=0"`
	Currency            string    `json:"currency"              binding:"omitempty,len=3"`
	StartsAt            time.Time `json:"starts_at" binding:"required"`
	EndsAt              time.Time `json:"ends_at"   binding:"required"`
	Status              string    `json:"status"    binding:"omitempty,oneof=Draft Scheduled"`
} // @name CreateAuctionWithExistingItemRequest

// UpdateAuctionBody is the operator patch evaluated by the mutability rules.
// Seller, winner, item link, currency and bid state cannot be sent here.
type UpdateAuctionBody struct {
	StartsAt            *time.Time `json:"starts_at"`
	EndsAt              *time.Time `json:"ends_at"`
	StartingPrice       *float64   `json:"starting_price"`
	ReservePrice        *float64   `json:"reserve_price"`
	BuyNowPrice         *float64   `json:"buy_now_price"`
	MinimumBidIncrement *float64   `json:"minimum_bid_increment"`
	Status              *string    `json:"status" example:"Scheduled"`
} // @name UpdateAuctionRequest

type ListAuctionsQuery struct {
	Status      string `form:"status"`
	IncludeItem bool   `form:"includeItem"`
	Page        int    `form:"page,default=1"`
	PageSize    int    `form:"pageSize,default=20"`
	Search      string `form:"search"`
} // @name ListAuctionsQuery

// clamp normalizes out-of-range pagination instead of rejecting it.
func (q *ListAuctionsQuery) clamp() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse

func createInput(sellerID string, sellerName *string, startingPrice float64,
	reserve, buyNow *float64, minInc float64, currency string,
	startsAt, endsAt time.Time, status string) auction.CreateAuctionInput {
	return auction.CreateAuctionInput{
		SellerID:            sellerID,
		SellerDisplayName:   sellerName,
		StartingPrice:       startingPrice,
		ReservePrice:        reserve,
		BuyNowPrice:         buyNow,
		MinimumBidIncrement: minInc,
		Currency:            currency,
		StartsAt:            startsAt.UTC(),
		EndsAt:              endsAt.UTC(),
		Status:              auction.Status(status),
	}
}

func (b UpdateAuctionBody) toPatch() (auction.Patch, error) {
	patch := auction.Patch{
		StartsAt:            b.StartsAt,
		EndsAt:              b.EndsAt,
		StartingPrice:       b.StartingPrice,
		ReservePrice:        b.ReservePrice,
		BuyNowPrice:         b.BuyNowPrice,
		MinimumBidIncrement: b.MinimumBidIncrement,
	}
	if b.Status != nil {
		st, err := auction.ParseStatus(*b.Status)
		if err != nil {
			return auction.Patch{}, err
		}
		patch.Status = &st
	}
	return patch, nil
}
