package auction

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAuctionID = "7b03b6b5-87ae-45a2-8f39-0f9d8f1f8a01"
	testItemID    = "3f8f2b8c-2e44-4f4b-9a3e-6a1d2c3b4e55"
	testSellerID  = "c1a2b3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

func newTestService(t *testing.T) (*auctionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &auctionService{
		db:    db,
		cache: nil, // nil cache is a permanent miss; Redis is best-effort
		now:   func() time.Time { return testNow },
	}, mock
}

var auctionCols = []string{
	"id", "seller_id", "seller_display_name", "winner_id", "winner_display_name", "item_id",
	"starting_price", "reserve_price", "buy_now_price", "minimum_bid_increment", "currency",
	"current_high_bid", "sold_amount", "status", "created_at", "updated_at", "starts_at", "ends_at", "revision",
}

func auctionRows(status Status, startsAt, endsAt time.Time, rev int64) *sqlmock.Rows {
	return sqlmock.NewRows(auctionCols).AddRow(
		testAuctionID, testSellerID, nil, nil, nil, testItemID,
		50.0, nil, nil, 1.0, "USD",
		nil, nil, string(status), testNow.Add(-24*time.Hour), testNow.Add(-24*time.Hour),
		startsAt, endsAt, rev,
	)
}

var itemCols = []string{
	"id", "title", "description", "creator_id", "creator_display_name", "collection_name",
	"edition_number", "edition_size", "media_type", "mime_type", "asset_url", "preview_url", "thumbnail_url",
	"file_size_bytes", "width_px", "height_px", "checksum_sha256", "external_ref", "license", "royalty_bps",
	"status", "tags", "attributes", "created_at", "published_at",
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemCols).AddRow(
		testItemID, "Neon City #001", "A 1/1 cyberpunk skyline.", nil, nil, nil,
		nil, nil, "Image", "image/png", "https://cdn.example.com/art/neon-city-001.png", nil, nil,
		int64(1024), nil, nil, nil, nil, "StandardPersonal", 750,
		"Published", []byte(`["neon"]`), []byte(`{"Palette":"Neon"}`), testNow.Add(-72*time.Hour), nil,
	)
}

func TestUpdateAuction_Success(t *testing.T) {
	svc, mock := newTestService(t)

	startsAt := testNow.Add(time.Hour)
	endsAt := testNow.Add(24 * time.Hour)
	newEnd := testNow.Add(48 * time.Hour)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusScheduled, startsAt, endsAt, 3))
	mock.ExpectExec("UPDATE auctions").
		WithArgs(testAuctionID, 50.0, nil, nil, 1.0, string(StatusScheduled),
			startsAt.UTC(), newEnd.UTC(), testNow, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// reload of the fresh read model
	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusScheduled, startsAt, newEnd, 4))
	mock.ExpectQuery("FROM items WHERE id").
		WillReturnRows(itemRows())

	dto, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{EndsAt: tp(newEnd)})
	require.NoError(t, err)
	assert.Equal(t, newEnd, dto.EndsAt)
	assert.Equal(t, 50.0, dto.StartingPrice)
	require.NotNil(t, dto.Item)
	assert.Equal(t, "Neon City #001", dto.Item.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAuction_StaleRevisionConflicts(t *testing.T) {
	svc, mock := newTestService(t)

	startsAt := testNow.Add(time.Hour)
	endsAt := testNow.Add(24 * time.Hour)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusScheduled, startsAt, endsAt, 3))
	mock.ExpectExec("UPDATE auctions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// the row still exists, so the zero-row update means a concurrent writer
	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusScheduled, startsAt, endsAt, 4))

	_, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{StartingPrice: fp(75)})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAuction_RowDeletedUnderneath(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusScheduled, testNow.Add(time.Hour), testNow.Add(24*time.Hour), 3))
	mock.ExpectExec("UPDATE auctions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{StartingPrice: fp(75)})
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}

func TestUpdateAuction_NotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{})
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}

func TestUpdateAuction_EndedRejectsBeforeAnyWrite(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusLive, testNow.Add(-48*time.Hour), testNow.Add(-time.Hour), 3))

	_, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{Status: sp(StatusCancelled)})
	assert.ErrorIs(t, err, ErrEnded)
	// no UPDATE was ever expected; a write attempt would fail the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAuction_LiveWindowFrozen(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusLive, testNow.Add(-time.Hour), testNow.Add(time.Hour), 3))

	_, err := svc.UpdateAuction(context.Background(), testAuctionID, Patch{StartingPrice: fp(999)})
	assert.ErrorIs(t, err, ErrScheduleFrozen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAuction_NotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := svc.GetAuction(context.Background(), testAuctionID)
	assert.ErrorIs(t, err, ErrAuctionNotFound)
}

func TestGetAuction_NestsItem(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusLive, testNow.Add(-time.Hour), testNow.Add(time.Hour), 1))
	mock.ExpectQuery("FROM items WHERE id").
		WillReturnRows(itemRows())

	dto, err := svc.GetAuction(context.Background(), testAuctionID)
	require.NoError(t, err)
	require.NotNil(t, dto.Item)
	assert.Equal(t, testItemID, dto.Item.ID)
	assert.Equal(t, []string{"neon"}, dto.Item.Tags)
}

func TestDeleteAuction_BeforeStart(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusDraft, testNow.Add(time.Hour), testNow.Add(24*time.Hour), 1))
	mock.ExpectExec("DELETE FROM auctions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.DeleteAuction(context.Background(), testAuctionID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuction_StartedIsRefused(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("FROM auctions WHERE id").
		WillReturnRows(auctionRows(StatusLive, testNow.Add(-time.Hour), testNow.Add(time.Hour), 1))

	err := svc.DeleteAuction(context.Background(), testAuctionID)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithExistingItem_AlreadyAuctioned(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items WHERE id").WillReturnRows(itemRows())
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	in := CreateAuctionInput{
		SellerID: testSellerID,
		StartsAt: testNow.Add(time.Hour),
		EndsAt:   testNow.Add(24 * time.Hour),
	}
	_, err := svc.CreateWithExistingItem(context.Background(), in, testItemID)
	assert.ErrorIs(t, err, ErrItemAlreadyAuctioned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithExistingItem_InvalidWindow(t *testing.T) {
	svc, mock := newTestService(t)

	in := CreateAuctionInput{
		SellerID: testSellerID,
		StartsAt: testNow.Add(24 * time.Hour),
		EndsAt:   testNow.Add(time.Hour),
	}
	_, err := svc.CreateWithExistingItem(context.Background(), in, testItemID)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "ends_at", fieldErr.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}
