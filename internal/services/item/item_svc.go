package item

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"artmart/internal/redis/auctioncache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrAlreadyPublished = errors.New("only draft items can be published")
	ErrLinkedToAuction  = errors.New("cannot delete: item is linked to an auction")
)

// Queryer is satisfied by *sql.DB and *sql.Tx, so the insert/fetch helpers
// can run standalone or inside a caller-owned transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type IItemService interface {
	CreateItem(ctx context.Context, in CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id string) (*ItemDTO, error)
	ListItems(ctx context.Context, q ListItemsQuery) ([]ItemDTO, error)
	UpdateItem(ctx context.Context, id string, patch UpdateItemPatch) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id string) error
}

type itemService struct {
	db    *sql.DB
	cache *auctioncache.Cache
	now   func() time.Time
}

func NewItemService(db *sql.DB, cache *auctioncache.Cache) IItemService {
	return &itemService{db: db, cache: cache, now: time.Now}
}

const itemColumns = `id, title, description, creator_id, creator_display_name, collection_name,
       edition_number, edition_size, media_type, mime_type, asset_url, preview_url, thumbnail_url,
       file_size_bytes, width_px, height_px, checksum_sha256, external_ref, license, royalty_bps,
       status, tags, attributes, created_at, published_at`

const insertItemQ = `
  INSERT INTO items (` + itemColumns + `)
  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`

// Insert writes a new item row. Exposed so the auction service can create an
// item inside its own transaction.
func Insert(ctx context.Context, q Queryer, id string, in CreateItemInput, createdAt time.Time) error {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	tags, err := json.Marshal(nonNilTags(in.Tags))
	if err != nil {
		return err
	}
	attrs, err := json.Marshal(nonNilAttrs(in.Attributes))
	if err != nil {
		return err
	}
	var publishedAt *time.Time
	if status == StatusPublished {
		publishedAt = &createdAt
	}
	_, err = q.ExecContext(ctx, insertItemQ,
		id, in.Title, in.Description, in.CreatorID, in.CreatorDisplayName, in.CollectionName,
		in.EditionNumber, in.EditionSize, string(in.MediaType), in.MimeType, in.AssetURL,
		in.PreviewURL, in.ThumbnailURL, in.FileSizeBytes, in.WidthPx, in.HeightPx,
		in.ChecksumSHA256, in.ExternalRef, string(in.License), in.RoyaltyBps,
		string(status), tags, attrs, createdAt, publishedAt,
	)
	return err
}

// Fetch loads one item by id. Returns ErrItemNotFound when the row is absent.
func Fetch(ctx context.Context, q Queryer, id string) (*ItemDTO, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	dto, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return dto, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*ItemDTO, error) {
	var (
		dto         ItemDTO
		tags, attrs []byte
	)
	err := row.Scan(
		&dto.ID, &dto.Title, &dto.Description, &dto.CreatorID, &dto.CreatorDisplayName,
		&dto.CollectionName, &dto.EditionNumber, &dto.EditionSize, &dto.MediaType,
		&dto.MimeType, &dto.AssetURL, &dto.PreviewURL, &dto.ThumbnailURL,
		&dto.FileSizeBytes, &dto.WidthPx, &dto.HeightPx, &dto.ChecksumSHA256,
		&dto.ExternalRef, &dto.License, &dto.RoyaltyBps, &dto.Status,
		&tags, &attrs, &dto.CreatedAt, &dto.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &dto.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &dto.Attributes); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (svc *itemService) CreateItem(ctx context.Context, in CreateItemInput) (*ItemDTO, error) {
	id := uuid.NewString()
	if err := Insert(ctx, svc.db, id, in, svc.now().UTC()); err != nil {
		return nil, err
	}
	return Fetch(ctx, svc.db, id)
}

func (svc *itemService) GetItem(ctx context.Context, id string) (*ItemDTO, error) {
	return Fetch(ctx, svc.db, id)
}

func (svc *itemService) ListItems(ctx context.Context, q ListItemsQuery) ([]ItemDTO, error) {
	if q.Limit == 0 {
		q.Limit = 20
	}
	base := `SELECT ` + itemColumns + ` FROM items`
	var (
		rows *sql.Rows
		err  error
	)
	if q.Search != "" {
		base += ` WHERE title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%'`
		rows, err = svc.db.QueryContext(ctx, base+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			q.Limit, q.Offset, q.Search)
	} else {
		rows, err = svc.db.QueryContext(ctx, base+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			q.Limit, q.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]ItemDTO, 0, q.Limit)
	for rows.Next() {
		dto, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *dto)
	}
	return list, rows.Err()
}

const updateItemQ = `
  UPDATE items
     SET title = $2, description = $3, collection_name = $4,
         preview_url = $5, thumbnail_url = $6,
         tags = $7, attributes = $8,
         status = $9, published_at = $10
   WHERE id = $1`

// UpdateItem applies the display-metadata patch. Everything outside the patch
// struct (asset url, checksum, media descriptors, licensing, editions,
// creator) is immutable here; unknown payload fields were already dropped at
// the binding layer.
func (svc *itemService) UpdateItem(ctx context.Context, id string, patch UpdateItemPatch) (*ItemDTO, error) {
	cur, err := Fetch(ctx, svc.db, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		cur.Title = *patch.Title
	}
	if patch.Description != nil {
		cur.Description = *patch.Description
	}
	if patch.CollectionName != nil {
		cur.CollectionName = patch.CollectionName
	}
	if patch.PreviewURL != nil {
		cur.PreviewURL = patch.PreviewURL
	}
	if patch.ThumbnailURL != nil {
		cur.ThumbnailURL = patch.ThumbnailURL
	}
	if patch.Tags != nil {
		cur.Tags = patch.Tags
	}
	if patch.Attributes != nil {
		cur.Attributes = patch.Attributes
	}

	// Publish is a one-way Draft -> Published action; repeating it fails.
	if patch.Publish {
		if cur.Status != StatusDraft {
			return nil, ErrAlreadyPublished
		}
		cur.Status = StatusPublished
		if cur.PublishedAt == nil {
			now := svc.now().UTC()
			cur.PublishedAt = &now
		}
	}

	tags, err := json.Marshal(nonNilTags(cur.Tags))
	if err != nil {
		return nil, err
	}
	attrs, err := json.Marshal(nonNilAttrs(cur.Attributes))
	if err != nil {
		return nil, err
	}
	_, err = svc.db.ExecContext(ctx, updateItemQ,
		id, cur.Title, cur.Description, cur.CollectionName,
		cur.PreviewURL, cur.ThumbnailURL, tags, attrs,
		string(cur.Status), cur.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	svc.dropLinkedAuctionCache(ctx, id)
	return Fetch(ctx, svc.db, id)
}

// dropLinkedAuctionCache evicts the cached auction read model that nests this
// item, so a metadata edit never serves stale through the auction endpoint.
func (svc *itemService) dropLinkedAuctionCache(ctx context.Context, itemID string) {
	if svc.cache == nil {
		return
	}
	var auctionID string
	err := svc.db.QueryRowContext(ctx,
		`SELECT id FROM auctions WHERE item_id = $1`, itemID).Scan(&auctionID)
	if errors.Is(err, sql.ErrNoRows) {
		return
	}
	if err != nil {
		zap.L().Debug("item_auction_cache_lookup", zap.String("item_id", itemID), zap.Error(err))
		return
	}
	svc.cache.Drop(ctx, auctionID)
}

// DeleteItem refuses while any auction references the item, no matter what
// state that auction is in.
func (svc *itemService) DeleteItem(ctx context.Context, id string) error {
	var linked bool
	err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM auctions WHERE item_id = $1)`, id).Scan(&linked)
	if err != nil {
		return err
	}
	if linked {
		return ErrLinkedToAuction
	}

	res, err := svc.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nonNilAttrs(attrs map[string]string) map[string]string {
	if attrs == nil {
		return map[string]string{}
	}
	return attrs
}
