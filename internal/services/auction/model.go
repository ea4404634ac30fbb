package auction

import (
	"fmt"
	"time"

	"artmart/internal/services/item"
)

// Status is the auction lifecycle state. Transitions through the update
// endpoint are restricted; see policy.go.
type Status string

const (
	StatusDraft         Status = "Draft"
	StatusScheduled     Status = "Scheduled"
	StatusLive          Status = "Live"
	StatusEnded         Status = "Ended"
	StatusReserveNotMet Status = "ReserveNotMet"
	StatusCancelled     Status = "Cancelled"
	StatusSettled       Status = "Settled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusLive, StatusEnded,
		StatusReserveNotMet, StatusCancelled, StatusSettled:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown auction status %q", s)
	}
	return st, nil
}

type AuctionDTO struct {
	ID                  string        `json:"id"`
	SellerID            string        `json:"seller_id"`
	SellerDisplayName   *string       `json:"seller_display_name,omitempty"`
	WinnerID            *string       `json:"winner_id,omitempty"`
	WinnerDisplayName   *string       `json:"winner_display_name,omitempty"`
	ItemID              string        `json:"item_id"`
	Item                *item.ItemDTO `json:"item,omitempty"`
	StartingPrice       float64       `json:"starting_price"`
	ReservePrice        *float64      `json:"reserve_price,omitempty"`
	BuyNowPrice         *float64      `json:"buy_now_price,omitempty"`
	MinimumBidIncrement float64       `json:"minimum_bid_increment"`
	Currency            string        `json:"currency"   example:"USD"`
	CurrentHighBid      *float64      `json:"current_high_bid,omitempty"`
	SoldAmount          *float64      `json:"sold_amount,omitempty"`
	Status              Status        `json:"status"     example:"Scheduled"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	StartsAt            time.Time     `json:"starts_at"  example:"2025-07-27T16:05:05Z"`
	EndsAt              time.Time     `json:"ends_at"    example:"2025-07-28T16:05:05Z"`
}

// AuctionSummaryDTO is the light list row: auction essentials plus the item's
// title and thumbnail.
type AuctionSummaryDTO struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	SellerDisplayName *string   `json:"seller_display_name,omitempty"`
	StartingPrice     float64   `json:"starting_price"`
	CurrentHighBid    *float64  `json:"current_high_bid,omitempty"`
	Status            Status    `json:"status"`
	EndsAt            time.Time `json:"ends_at"`
	ThumbnailURL      *string   `json:"thumbnail_url,omitempty"`
}

// CreateAuctionInput holds the auction-side fields shared by both create
// operations. Winner, high bid and sold amount start empty; they belong to
// the bidding and settlement processes.
type CreateAuctionInput struct {
	SellerID            string
	SellerDisplayName   *string
	StartingPrice       float64
	ReservePrice        *float64
	BuyNowPrice         *float64
	MinimumBidIncrement float64
	Currency            string
	StartsAt            time.Time
	EndsAt              time.Time
	Status              Status
}

type ListQuery struct {
	Status Status
	Search string
	Limit  int
	Offset int
}
