package auction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artmart/internal/redis/auctioncache"
	"artmart/internal/services/item"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrConflict             = errors.New("auction was modified concurrently; reload and retry")
	ErrItemAlreadyAuctioned = errors.New("this item already has an auction")
	ErrAlreadyStarted       = errors.New("auction has started; it can no longer be deleted")
)

type IAuctionService interface {
	CreateWithNewItem(ctx context.Context, in CreateAuctionInput, art item.CreateItemInput) (*AuctionDTO, error)
	CreateWithExistingItem(ctx context.Context, in CreateAuctionInput, itemID string) (*AuctionDTO, error)
	GetAuction(ctx context.Context, id string) (*AuctionDTO, error)
	ListAuctions(ctx context.Context, q ListQuery) ([]AuctionDTO, error)
	ListAuctionSummaries(ctx context.Context, q ListQuery) ([]AuctionSummaryDTO, error)
	UpdateAuction(ctx context.Context, id string, patch Patch) (*AuctionDTO, error)
	DeleteAuction(ctx context.Context, id string) error
}

type auctionService struct {
	db    *sql.DB
	cache *auctioncache.Cache
	now   func() time.Time
}

func NewAuctionService(db *sql.DB, cache *auctioncache.Cache) IAuctionService {
	return &auctionService{db: db, cache: cache, now: time.Now}
}

const auctionColumns = `id, seller_id, seller_display_name, winner_id, winner_display_name, item_id,
       starting_price, reserve_price, buy_now_price, minimum_bid_increment, currency,
       current_high_bid, sold_amount, status, created_at, updated_at, starts_at, ends_at, revision`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAuction reads one auctionColumns row. The revision is returned apart
// from the DTO: it guards writes but never leaves the service.
func scanAuction(row rowScanner) (*AuctionDTO, int64, error) {
	var (
		dto AuctionDTO
		rev int64
	)
	err := row.Scan(
		&dto.ID, &dto.SellerID, &dto.SellerDisplayName, &dto.WinnerID, &dto.WinnerDisplayName,
		&dto.ItemID, &dto.StartingPrice, &dto.ReservePrice, &dto.BuyNowPrice,
		&dto.MinimumBidIncrement, &dto.Currency, &dto.CurrentHighBid, &dto.SoldAmount,
		&dto.Status, &dto.CreatedAt, &dto.UpdatedAt, &dto.StartsAt, &dto.EndsAt, &rev,
	)
	if err != nil {
		return nil, 0, err
	}
	return &dto, rev, nil
}

func (svc *auctionService) fetch(ctx context.Context, q item.Queryer, id string) (*AuctionDTO, int64, error) {
	row := q.QueryRowContext(ctx, `SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	dto, rev, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrAuctionNotFound
	}
	return dto, rev, err
}

const insertAuctionQ = `
  INSERT INTO auctions (id, seller_id, seller_display_name, item_id,
                        starting_price, reserve_price, buy_now_price,
                        minimum_bid_increment, currency, status,
                        created_at, updated_at, starts_at, ends_at, revision)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $12, $13, 1)`

func (svc *auctionService) insert(ctx context.Context, q item.Queryer, id, itemID string, in CreateAuctionInput, now time.Time) error {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	minInc := in.MinimumBidIncrement
	if minInc == 0 {
		minInc = 1
	}
	_, err := q.ExecContext(ctx, insertAuctionQ,
		id, in.SellerID, in.SellerDisplayName, itemID,
		in.StartingPrice, in.ReservePrice, in.BuyNowPrice,
		minInc, currency, string(status),
		now, in.StartsAt.UTC(), in.EndsAt.UTC(),
	)
	return err
}

// CreateWithNewItem registers the artwork and its auction in one transaction
// so a failed auction insert never leaves an orphaned item behind.
func (svc *auctionService) CreateWithNewItem(ctx context.Context, in CreateAuctionInput, art item.CreateItemInput) (*AuctionDTO, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, &FieldError{Field: "ends_at", Reason: "must be after starts_at"}
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := svc.now().UTC()
	itemID := uuid.NewString()
	if err := item.Insert(ctx, tx, itemID, art, now); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	auctionID := uuid.NewString()
	if err := svc.insert(ctx, tx, auctionID, itemID, in, now); err != nil {
		return nil, fmt.Errorf("insert auction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return svc.GetAuction(ctx, auctionID)
}

func (svc *auctionService) CreateWithExistingItem(ctx context.Context, in CreateAuctionInput, itemID string) (*AuctionDTO, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, &FieldError{Field: "ends_at", Reason: "must be after starts_at"}
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := item.Fetch(ctx, tx, itemID); err != nil {
		return nil, err
	}

	// 1:1 link; the unique index on item_id backs this check up under races.
	var taken bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM auctions WHERE item_id = $1)`, itemID).Scan(&taken); err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrItemAlreadyAuctioned
	}

	auctionID := uuid.NewString()
	if err := svc.insert(ctx, tx, auctionID, itemID, in, svc.now().UTC()); err != nil {
		return nil, fmt.Errorf("insert auction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return svc.GetAuction(ctx, auctionID)
}

func (svc *auctionService) GetAuction(ctx context.Context, id string) (*AuctionDTO, error) {
	// Fast path: cached read model, nested item included.
	if payload, ok := svc.cache.Get(ctx, id); ok {
		dto := &AuctionDTO{}
		if err := json.Unmarshal(payload, dto); err == nil {
			return dto, nil
		}
		zap.L().Warn("auction_cache_decode", zap.String("id", id))
	}

	dto, _, err := svc.fetch(ctx, svc.db, id)
	if err != nil {
		return nil, err
	}
	it, err := item.Fetch(ctx, svc.db, dto.ItemID)
	if err != nil {
		return nil, err
	}
	dto.Item = it

	if payload, err := json.Marshal(dto); err == nil {
		svc.cache.Put(ctx, id, payload)
	}
	return dto, nil
}

func listFilter(q *ListQuery) (string, []any) {
	if q.Limit == 0 {
		q.Limit = 20
	}
	where := ""
	args := []any{}
	if q.Status != "" {
		args = append(args, string(q.Status))
		where += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, q.Search)
		where += fmt.Sprintf(" AND (i.title ILIKE '%%' || $%d || '%%' OR i.description ILIKE '%%' || $%d || '%%')", len(args), len(args))
	}
	args = append(args, q.Limit, q.Offset)
	tail := fmt.Sprintf(" ORDER BY a.updated_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return where + tail, args
}

const auctionColumnsAliased = `a.id, a.seller_id, a.seller_display_name, a.winner_id, a.winner_display_name, a.item_id,
       a.starting_price, a.reserve_price, a.buy_now_price, a.minimum_bid_increment, a.currency,
       a.current_high_bid, a.sold_amount, a.status, a.created_at, a.updated_at, a.starts_at, a.ends_at, a.revision`

func (svc *auctionService) ListAuctions(ctx context.Context, q ListQuery) ([]AuctionDTO, error) {
	filter, args := listFilter(&q)
	rows, err := svc.db.QueryContext(ctx,
		`SELECT `+auctionColumnsAliased+` FROM auctions a JOIN items i ON i.id = a.item_id WHERE true`+filter,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]AuctionDTO, 0, q.Limit)
	for rows.Next() {
		dto, _, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *dto)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for idx := range list {
		it, err := item.Fetch(ctx, svc.db, list[idx].ItemID)
		if err != nil {
			return nil, err
		}
		list[idx].Item = it
	}
	return list, nil
}

func (svc *auctionService) ListAuctionSummaries(ctx context.Context, q ListQuery) ([]AuctionSummaryDTO, error) {
	filter, args := listFilter(&q)
	rows, err := svc.db.QueryContext(ctx,
		`SELECT a.id, i.title, a.seller_display_name, a.starting_price, a.current_high_bid,
	            a.status, a.ends_at, i.thumbnail_url
	       FROM auctions a JOIN items i ON i.id = a.item_id WHERE true`+filter,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]AuctionSummaryDTO, 0, q.Limit)
	for rows.Next() {
		var s AuctionSummaryDTO
		if err := rows.Scan(&s.ID, &s.Title, &s.SellerDisplayName, &s.StartingPrice,
			&s.CurrentHighBid, &s.Status, &s.EndsAt, &s.ThumbnailURL); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

const updateAuctionQ = `
  UPDATE auctions
     SET starting_price = $2, reserve_price = $3, buy_now_price = $4,
         minimum_bid_increment = $5, status = $6,
         starts_at = $7, ends_at = $8, updated_at = $9,
         revision = revision + 1
   WHERE id = $1 AND revision = $10`

// UpdateAuction loads the auction, runs the mutability rules against the
// request-time clock, and persists the patched row guarded by the revision it
// read. A stale revision means another writer got there first; that surfaces
// as ErrConflict and the caller retries with a fresh read.
func (svc *auctionService) UpdateAuction(ctx context.Context, id string, patch Patch) (*AuctionDTO, error) {
	cur, rev, err := svc.fetch(ctx, svc.db, id)
	if err != nil {
		return nil, err
	}

	now := svc.now().UTC()
	snap := Snapshot{Status: cur.Status, StartsAt: cur.StartsAt, EndsAt: cur.EndsAt}
	if err := Decide(snap, now, patch); err != nil {
		return nil, err
	}
	patch.apply(cur, now)

	res, err := svc.db.ExecContext(ctx, updateAuctionQ,
		id, cur.StartingPrice, cur.ReservePrice, cur.BuyNowPrice,
		cur.MinimumBidIncrement, string(cur.Status),
		cur.StartsAt.UTC(), cur.EndsAt.UTC(), now, rev,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row gone or revision stale; tell them apart for the caller.
		if _, _, err := svc.fetch(ctx, svc.db, id); errors.Is(err, ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, ErrConflict
	}

	svc.cache.Drop(ctx, id)
	return svc.GetAuction(ctx, id)
}

// DeleteAuction removes an auction that has not yet entered its bidding
// window. Anything at or past its start time stays on record.
func (svc *auctionService) DeleteAuction(ctx context.Context, id string) error {
	cur, _, err := svc.fetch(ctx, svc.db, id)
	if err != nil {
		return err
	}
	if !svc.now().UTC().Before(cur.StartsAt) {
		return ErrAlreadyStarted
	}
	if _, err := svc.db.ExecContext(ctx, `DELETE FROM auctions WHERE id = $1`, id); err != nil {
		return err
	}
	svc.cache.Drop(ctx, id)
	return nil
}
