package itemhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artmart/internal/services/item"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testItemID = "3f8f2b8c-2e44-4f4b-9a3e-6a1d2c3b4e55"

type stubService struct {
	create func(ctx context.Context, in item.CreateItemInput) (*item.ItemDTO, error)
	get    func(ctx context.Context, id string) (*item.ItemDTO, error)
	list   func(ctx context.Context, q item.ListItemsQuery) ([]item.ItemDTO, error)
	update func(ctx context.Context, id string, patch item.UpdateItemPatch) (*item.ItemDTO, error)
	remove func(ctx context.Context, id string) error
}

func (s *stubService) CreateItem(ctx context.Context, in item.CreateItemInput) (*item.ItemDTO, error) {
	return s.create(ctx, in)
}
func (s *stubService) GetItem(ctx context.Context, id string) (*item.ItemDTO, error) {
	return s.get(ctx, id)
}
func (s *stubService) ListItems(ctx context.Context, q item.ListItemsQuery) ([]item.ItemDTO, error) {
	return s.list(ctx, q)
}
func (s *stubService) UpdateItem(ctx context.Context, id string, patch item.UpdateItemPatch) (*item.ItemDTO, error) {
	return s.update(ctx, id, patch)
}
func (s *stubService) DeleteItem(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}

func newRouter(svc item.IItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc).Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_Defaults(t *testing.T) {
	var gotIn item.CreateItemInput
	svc := &stubService{
		create: func(_ context.Context, in item.CreateItemInput) (*item.ItemDTO, error) {
			gotIn = in
			return &item.ItemDTO{ID: testItemID, Title: in.Title, Status: in.Status}, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPost, "/api/items",
		`{"title":"Neon City #001","description":"A 1/1 cyberpunk skyline.",
		  "mime_type":"image/png","asset_url":"https://cdn.example.com/art/neon-city-001.png"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, item.MediaImage, gotIn.MediaType)
	assert.Equal(t, item.LicenseStandardPersonal, gotIn.License)
	assert.Equal(t, item.StatusDraft, gotIn.Status)
}

func TestCreate_MissingTitle(t *testing.T) {
	svc := &stubService{
		create: func(context.Context, item.CreateItemInput) (*item.ItemDTO, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPost, "/api/items",
		`{"description":"no title","mime_type":"image/png","asset_url":"https://cdn.example.com/a.png"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_UnknownMediaType(t *testing.T) {
	svc := &stubService{}
	w := doJSON(t, newRouter(svc), http.MethodPost, "/api/items",
		`{"title":"x","description":"y","mime_type":"image/png",
		  "asset_url":"https://cdn.example.com/a.png","media_type":"Hologram"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdate_ImmutableFieldsAreDropped(t *testing.T) {
	var gotPatch item.UpdateItemPatch
	svc := &stubService{
		update: func(_ context.Context, id string, patch item.UpdateItemPatch) (*item.ItemDTO, error) {
			gotPatch = patch
			return &item.ItemDTO{ID: id, Status: item.StatusDraft}, nil
		},
	}
	// asset_url and royalty_bps are not part of the update surface; the
	// binding drops them and the title change goes through alone.
	w := doJSON(t, newRouter(svc), http.MethodPut, "/api/items/"+testItemID,
		`{"title":"Renamed","asset_url":"https://evil.example.com/swap.png","royalty_bps":9999}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotPatch.Title)
	assert.Equal(t, "Renamed", *gotPatch.Title)
	assert.Nil(t, gotPatch.Description)
	assert.False(t, gotPatch.Publish)
}

func TestUpdate_Publish(t *testing.T) {
	svc := &stubService{
		update: func(_ context.Context, id string, patch item.UpdateItemPatch) (*item.ItemDTO, error) {
			assert.True(t, patch.Publish)
			return &item.ItemDTO{ID: id, Status: item.StatusPublished}, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPut, "/api/items/"+testItemID, `{"publish":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Published"`)
}

func TestUpdate_PublishTwice(t *testing.T) {
	svc := &stubService{
		update: func(context.Context, string, item.UpdateItemPatch) (*item.ItemDTO, error) {
			return nil, item.ErrAlreadyPublished
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPut, "/api/items/"+testItemID, `{"publish":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdate_MalformedIDIsNotFound(t *testing.T) {
	svc := &stubService{
		update: func(context.Context, string, item.UpdateItemPatch) (*item.ItemDTO, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	w := doJSON(t, newRouter(svc), http.MethodPut, "/api/items/42", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete_LinkedToAuction(t *testing.T) {
	svc := &stubService{
		remove: func(context.Context, string) error { return item.ErrLinkedToAuction },
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/items/"+testItemID, nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete_Success(t *testing.T) {
	svc := &stubService{
		remove: func(context.Context, string) error { return nil },
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/items/"+testItemID, nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGet_NotFound(t *testing.T) {
	svc := &stubService{
		get: func(context.Context, string) (*item.ItemDTO, error) { return nil, item.ErrItemNotFound },
	}
	req := httptest.NewRequest(http.MethodGet, "/api/items/"+testItemID, nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_PaginationClamped(t *testing.T) {
	svc := &stubService{
		list: func(_ context.Context, q item.ListItemsQuery) ([]item.ItemDTO, error) {
			assert.Equal(t, 100, q.Limit)
			assert.Equal(t, 0, q.Offset)
			return []item.ItemDTO{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/items?page=0&pageSize=500", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestList_PageMapsToOffset(t *testing.T) {
	svc := &stubService{
		list: func(_ context.Context, q item.ListItemsQuery) ([]item.ItemDTO, error) {
			assert.Equal(t, "neon", q.Search)
			assert.Equal(t, 10, q.Limit)
			assert.Equal(t, 10, q.Offset)
			return []item.ItemDTO{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/items?search=neon&page=2&pageSize=10", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
