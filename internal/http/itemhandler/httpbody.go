package itemhandler

import "artmart/internal/services/item"

type CreateItemBody struct {
	Title              string            `json:"title"       binding:"required"       example:"Neon City #001"`
	Description        string            `json:"description" binding:"required"`
	CreatorID          *string           `json:"creator_id"           binding:"omitempty,uuid"`
	CreatorDisplayName *string           `json:"creator_display_name"`
	CollectionName     *string           `json:"collection_name"`
	EditionNumber      *int              `json:"edition_number"       binding:"omitempty,gt=0"`
	EditionSize        *int              `json:"edition_size"         binding:"omitempty,gt=0"`
	MediaType          string            `json:"media_type"  binding:"omitempty,oneof=Image Video Audio Animation ThreeD Other" example:"Image"`
	MimeType           string            `json:"mime_type"   binding:"required"       example:"image/png"`
	AssetURL           string            `json:"asset_url"   binding:"required,url"`
	PreviewURL         *string           `json:"preview_url"          binding:"omitempty,url"`
	ThumbnailURL       *string           `json:"thumbnail_url"        binding:"omitempty,url"`
	FileSizeBytes      int64             `json:"file_size_bytes"      binding:"gte=0"`
	WidthPx            *int              `json:"width_px"             binding:"omitempty,gt=0"`
	HeightPx           *int              `json:"height_px"            binding:"omitempty,gt=0"`
	ChecksumSHA256     *string           `json:"checksum_sha256"`
	ExternalRef        *string           `json:"external_ref"`
	License            string            `json:"license"     binding:"omitempty,oneof=StandardPersonal CommercialLimited CommercialUnlimited Custom"`
	RoyaltyBps         int               `json:"royalty_bps" binding:"gte=0,lte=10000"`
	Status             string            `json:"status"      binding:"omitempty,oneof=Draft Published"`
	Tags               []string          `json:"tags"`
	Attributes         map[string]string `json:"attributes"`
} // @name CreateItemRequest

// UpdateItemBody lists the only fields the update endpoint will touch.
// Immutable item fields (asset url, checksum, media descriptors, licensing,
// editions, creator) are absent on purpose: unknown JSON keys are dropped
// silently at binding time.
type UpdateItemBody struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	CollectionName *string            `json:"collection_name"`
	PreviewURL     *string            `json:"preview_url"   binding:"omitempty,url"`
	ThumbnailURL   *string            `json:"thumbnail_url" binding:"omitempty,url"`
	Tags           *[]string          `json:"tags"`
	Attributes     *map[string]string `json:"attributes"`
	Publish        *bool              `json:"publish"`
} // @name UpdateItemRequest

type ListItemsQuery struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
	Search   string `form:"search"`
} // @name ListItemsQuery

// clamp normalizes out-of-range pagination instead of rejecting it.
func (q *ListItemsQuery) clamp() {
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
} // @name ItemErrorResponse

// ToCreateInput maps the request body onto the service input, filling the
// catalog defaults.
func (b CreateItemBody) ToCreateInput() item.CreateItemInput {
	mediaType := item.MediaType(b.MediaType)
	if b.MediaType == "" {
		mediaType = item.MediaImage
	}
	license := item.LicenseType(b.License)
	if b.License == "" {
		license = item.LicenseStandardPersonal
	}
	status := item.Status(b.Status)
	if b.Status == "" {
		status = item.StatusDraft
	}
	return item.CreateItemInput{
		Title:              b.Title,
		Description:        b.Description,
		CreatorID:          b.CreatorID,
		CreatorDisplayName: b.CreatorDisplayName,
		CollectionName:     b.CollectionName,
		EditionNumber:      b.EditionNumber,
		EditionSize:        b.EditionSize,
		MediaType:          mediaType,
		MimeType:           b.MimeType,
		AssetURL:           b.AssetURL,
		PreviewURL:         b.PreviewURL,
		ThumbnailURL:       b.ThumbnailURL,
		FileSizeBytes:      b.FileSizeBytes,
		WidthPx:            b.WidthPx,
		HeightPx:           b.HeightPx,
		ChecksumSHA256:     b.ChecksumSHA256,
		ExternalRef:        b.ExternalRef,
		License:            license,
		RoyaltyBps:         b.RoyaltyBps,
		Status:             status,
		Tags:               b.Tags,
		Attributes:         b.Attributes,
	}
}

func (b UpdateItemBody) toPatch() item.UpdateItemPatch {
	patch := item.UpdateItemPatch{
		Title:          b.Title,
		Description:    b.Description,
		CollectionName: b.CollectionName,
		PreviewURL:     b.PreviewURL,
		ThumbnailURL:   b.ThumbnailURL,
	}
	if b.Tags != nil {
		patch.Tags = *b.Tags
	}
	if b.Attributes != nil {
		patch.Attributes = *b.Attributes
	}
	if b.Publish != nil {
		patch.Publish = *b.Publish
	}
	return patch
}
