package listing

import (
	"database/sql"
	"time"
)

// Kind is the listing variant. Feature plans constrain which kinds a
// given credit type can be consumed against.
type Kind string

const (
	KindAd      Kind = "ad"
	KindCar     Kind = "car"
	KindAuction Kind = "auction"
	KindEvent   Kind = "event"
	KindHotel   Kind = "hotel"
	KindClub    Kind = "club"
	KindService Kind = "service"
)

func (k Kind) Valid() bool {
	switch k {
	case KindAd, KindCar, KindAuction, KindEvent, KindHotel, KindClub, KindService:
		return true
	}
	return false
}

// FeatureType is the promotion tier stamped onto a listing at consumption.
type FeatureType string

const (
	FeatureNone     FeatureType = "none"
	FeatureStandard FeatureType = "standard"
	FeatureFeatured FeatureType = "featured"
)

// BannerPlacement applies to banner credit consumptions only.
type BannerPlacement string

const (
	BannerUnset    BannerPlacement = ""
	BannerHomepage BannerPlacement = "homepage"
	BannerCategory BannerPlacement = "category"
)

type Listing struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	Kind            Kind            `db:"kind" json:"kind"`
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	Category        string          `db:"category" json:"category"`
	Featured        bool            `db:"featured" json:"featured"`
	FeatureType     FeatureType     `db:"feature_type" json:"feature_type"`
	FeatureStart    sql.NullTime    `db:"feature_start" json:"feature_start,omitempty"`
	FeatureEnd      sql.NullTime    `db:"feature_end" json:"feature_end,omitempty"`
	BannerPlacement BannerPlacement `db:"banner_placement" json:"banner_placement,omitempty"`
	DisplayPage     sql.NullString  `db:"display_page" json:"display_page,omitempty"`
	Deactivated     bool            `db:"deactivated" json:"deactivated"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// FeatureUpdate is the partial update stamped onto a listing when a credit
// is consumed. Start and End come from the window calculator, computed once
// at the consumption instant.
type FeatureUpdate struct {
	FeatureType     FeatureType
	Start           time.Time
	End             time.Time
	BannerPlacement BannerPlacement
	DisplayPage     string
}
