package seed

import (
	"context"
	"database/sql"
	"time"

	"artmart/internal/services/auction"
	"artmart/internal/services/item"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run inserts a small demo catalog when both tables are empty. Meant for
// development databases only; gated by SEED_SAMPLE_DATA.
func Run(ctx context.Context, db *sql.DB) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM items) + (SELECT count(*) FROM auctions)`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		zap.L().Debug("seed skipped, catalog not empty")
		return nil
	}

	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	type artwork struct {
		id string
		in item.CreateItemInput
	}
	arts := []artwork{
		{uuid.NewString(), item.CreateItemInput{
			Title:              "Neon City #001",
			Description:        "A 1/1 cyberpunk skyline rendered in ray-traced neon.",
			CreatorID:          ptr(uuid.NewString()),
			CreatorDisplayName: ptr("Aria Nova"),
			CollectionName:     ptr("Neon City"),
			MediaType:          item.MediaImage,
			MimeType:           "image/png",
			AssetURL:           "https://cdn.example.com/art/neon-city-001.png",
			PreviewURL:         ptr("https://cdn.example.com/art/preview/neon-city-001.png"),
			ThumbnailURL:       ptr("https://cdn.example.com/art/thumb/neon-city-001.png"),
			FileSizeBytes:      3_456_789,
			WidthPx:            ptr(4000),
			HeightPx:           ptr(2500),
			ChecksumSHA256:     ptr("c0ffee...001"),
			ExternalRef:        ptr("ipfs://bafy...001"),
			License:            item.LicenseStandardPersonal,
			RoyaltyBps:         750,
			Status:             item.StatusPublished,
			Tags:               []string{"cyberpunk", "city", "neon", "1of1"},
			Attributes: map[string]string{
				"Palette": "Neon",
				"Style":   "Ray Tracing",
				"Mood":    "Futuristic",
			},
		}},
		{uuid.NewString(), item.CreateItemInput{
			Title:              "Generative Bloom #12/25",
			Description:        "Procedural flowers generated from Perlin noise.",
			CreatorID:          ptr(uuid.NewString()),
			CreatorDisplayName: ptr("AlgoBloom"),
			CollectionName:     ptr("Generative Bloom"),
			EditionNumber:      ptr(12),
			EditionSize:        ptr(25),
			MediaType:          item.MediaAnimation,
			MimeType:           "video/mp4",
			AssetURL:           "https://cdn.example.com/art/generative-bloom-12.mp4",
			PreviewURL:         ptr("https://cdn.example.com/art/preview/generative-bloom-12.mp4"),
			ThumbnailURL:       ptr("https://cdn.example.com/art/thumb/generative-bloom-12.png"),
			FileSizeBytes:      12_345_678,
			WidthPx:            ptr(1920),
			HeightPx:           ptr(1080),
			ChecksumSHA256:     ptr("c0ffee...012"),
			ExternalRef:        ptr("ipfs://bafy...012"),
			License:            item.LicenseCommercialLimited,
			RoyaltyBps:         500,
			Status:             item.StatusPublished,
			Tags:               []string{"generative", "flowers", "animation"},
			Attributes: map[string]string{
				"Algorithm": "Perlin",
				"Edition":   "12/25",
			},
		}},
		{uuid.NewString(), item.CreateItemInput{
			Title:              "Synthwave Horizon",
			Description:        "Looping audio-visual piece with analog synth textures.",
			CreatorID:          ptr(uuid.NewString()),
			CreatorDisplayName: ptr("LumenField"),
			CollectionName:     ptr("Horizons"),
			MediaType:          item.MediaAudio,
			MimeType:           "audio/mpeg",
			AssetURL:           "https://cdn.example.com/art/synthwave-horizon.mp3",
			ThumbnailURL:       ptr("https://cdn.example.com/art/thumb/synthwave-horizon.png"),
			FileSizeBytes:      8_222_333,
			ChecksumSHA256:     ptr("c0ffee...0a3"),
			License:            item.LicenseStandardPersonal,
			RoyaltyBps:         1000,
			Status:             item.StatusDraft,
			Tags:               []string{"synthwave", "audio", "loop"},
			Attributes:         map[string]string{"BPM": "96"},
		}},
	}

	for _, a := range arts {
		if err := item.Insert(ctx, tx, a.id, a.in, now); err != nil {
			return err
		}
	}

	const insAuctionQ = `
	  INSERT INTO auctions (id, seller_id, seller_display_name, item_id,
	                        starting_price, reserve_price, minimum_bid_increment, currency,
	                        status, created_at, updated_at, starts_at, ends_at, revision)
	       VALUES ($1, $2, $3, $4, $5, $6, $7, 'USD', $8, $9, $9, $10, $11, 1)`

	// one live auction, one that starts tomorrow
	_, err = tx.ExecContext(ctx, insAuctionQ,
		uuid.NewString(), uuid.NewString(), "Aria Nova", arts[0].id,
		250.00, 400.00, 10.00, string(auction.StatusLive),
		now, now.Add(-2*time.Hour), now.Add(22*time.Hour),
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, insAuctionQ,
		uuid.NewString(), uuid.NewString(), "AlgoBloom", arts[1].id,
		100.00, nil, 5.00, string(auction.StatusScheduled),
		now, now.Add(24*time.Hour), now.Add(72*time.Hour),
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	zap.L().Info("sample catalog seeded", zap.Int("items", len(arts)), zap.Int("auctions", 2))
	return nil
}

func ptr[T any](v T) *T { return &v }
