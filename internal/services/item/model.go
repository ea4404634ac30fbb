package item

import "time"

// Status is the catalog lifecycle of an item.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// MediaType classifies the underlying asset.
type MediaType string

const (
	MediaImage     MediaType = "Image"
	MediaVideo     MediaType = "Video"
	MediaAudio     MediaType = "Audio"
	MediaAnimation MediaType = "Animation"
	MediaThreeD    MediaType = "ThreeD"
	MediaOther     MediaType = "Other"
)

func (m MediaType) IsValid() bool {
	switch m {
	case MediaImage, MediaVideo, MediaAudio, MediaAnimation, MediaThreeD, MediaOther:
		return true
	default:
		return false
	}
}

// LicenseType describes the rights sold with the artwork.
type LicenseType string

const (
	LicenseStandardPersonal    LicenseType = "StandardPersonal"
	LicenseCommercialLimited   LicenseType = "CommercialLimited"
	LicenseCommercialUnlimited LicenseType = "CommercialUnlimited"
	LicenseCustom              LicenseType = "Custom"
)

func (l LicenseType) IsValid() bool {
	switch l {
	case LicenseStandardPersonal, LicenseCommercialLimited, LicenseCommercialUnlimited, LicenseCustom:
		return true
	default:
		return false
	}
}

type ItemDTO struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	CreatorID          *string           `json:"creator_id,omitempty"`
	CreatorDisplayName *string           `json:"creator_display_name,omitempty"`
	CollectionName     *string           `json:"collection_name,omitempty"`
	EditionNumber      *int              `json:"edition_number,omitempty"`
	EditionSize        *int              `json:"edition_size,omitempty"`
	MediaType          MediaType         `json:"media_type"     example:"Image"`
	MimeType           string            `json:"mime_type"      example:"image/png"`
	AssetURL           string            `json:"asset_url"`
	PreviewURL         *string           `json:"preview_url,omitempty"`
	ThumbnailURL       *string           `json:"thumbnail_url,omitempty"`
	FileSizeBytes      int64             `json:"file_size_bytes"`
	WidthPx            *int              `json:"width_px,omitempty"`
	HeightPx           *int              `json:"height_px,omitempty"`
	ChecksumSHA256     *string           `json:"checksum_sha256,omitempty"`
	ExternalRef        *string           `json:"external_ref,omitempty"`
	License            LicenseType       `json:"license"        example:"StandardPersonal"`
	RoyaltyBps         int               `json:"royalty_bps"`
	Status             Status            `json:"status"         example:"Draft"`
	Tags               []string          `json:"tags"`
	Attributes         map[string]string `json:"attributes"`
	CreatedAt          time.Time         `json:"created_at"`
	PublishedAt        *time.Time        `json:"published_at,omitempty"`
}

// CreateItemInput carries everything needed to register a new artwork.
// Media descriptors set here never change afterwards.
type CreateItemInput struct {
	Title              string
	Description        string
	CreatorID          *string
	CreatorDisplayName *string
	CollectionName     *string
	EditionNumber      *int
	EditionSize        *int
	MediaType          MediaType
	MimeType           string
	AssetURL           string
	PreviewURL         *string
	ThumbnailURL       *string
	FileSizeBytes      int64
	WidthPx            *int
	HeightPx           *int
	ChecksumSHA256     *string
	ExternalRef        *string
	License            LicenseType
	RoyaltyBps         int
	Status             Status
	Tags               []string
	Attributes         map[string]string
}

// UpdateItemPatch holds the display-metadata fields that stay mutable after
// creation. A nil field means "leave as is".
type UpdateItemPatch struct {
	Title          *string
	Description    *string
	CollectionName *string
	PreviewURL     *string
	ThumbnailURL   *string
	Tags           []string
	Attributes     map[string]string
	Publish        bool
}

type ListItemsQuery struct {
	Search string
	Limit  int
	Offset int
}
