package models

import (
	"encoding/json"
	"time"
)

// Site settings are stored as one JSON document per key, last writer wins.
// Known keys:
const (
	SettingKeyMovingHeader = "moving-header"
	SettingKeyHeroSlides   = "hero-slides"
	SettingKeyCta          = "cta"
	SettingKeyFooter       = "footer"
	SettingKeyLogo         = "logo"
	SettingKeyCategories   = "categories"
)

// ValidSettingKeys lists the accepted /site/* document keys
var ValidSettingKeys = map[string]bool{
	SettingKeyMovingHeader: true,
	SettingKeyHeroSlides:   true,
	SettingKeyCta:          true,
	SettingKeyFooter:       true,
	SettingKeyLogo:         true,
	SettingKeyCategories:   true,
}

// SiteSetting is the stored form of a settings document
type SiteSetting struct {
	Key       string          `json:"key" db:"key"`
	Value     json.RawMessage `json:"value" db:"value"`
	UpdatedBy string          `json:"updatedBy,omitempty" db:"updated_by"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// TickerItem is one entry of the moving price header
type TickerItem struct {
	LabelFr string  `json:"labelFr"`
	LabelAr string  `json:"labelAr"`
	Price   float64 `json:"price"`
	Unit    string  `json:"unit"`
}

// MovingHeaderSettings configures the price ticker strip
type MovingHeaderSettings struct {
	Enabled  bool         `json:"enabled"`
	Items    []TickerItem `json:"items"`
	SpeedSec int          `json:"speedSec"`
	FontSize int          `json:"fontSize"`
}

// HeroSlide is one slide of the landing carousel
type HeroSlide struct {
	ImageURL    string `json:"imageUrl"`
	TitleFr     string `json:"titleFr"`
	TitleAr     string `json:"titleAr"`
	DurationSec int    `json:"durationSec"`
}

// HeroSlideSettings is the ordered slide list
type HeroSlideSettings struct {
	Slides []HeroSlide `json:"slides"`
}

// FooterLink is a single footer entry
type FooterLink struct {
	LabelFr string `json:"labelFr"`
	LabelAr string `json:"labelAr"`
	URL     string `json:"url"`
}

// FooterColumn groups footer links under a heading
type FooterColumn struct {
	TitleFr string       `json:"titleFr"`
	TitleAr string       `json:"titleAr"`
	Links   []FooterLink `json:"links"`
}

// FooterSettings configures the site footer, including the call-center
// numbers buyers ring instead of messaging sellers.
type FooterSettings struct {
	Columns           []FooterColumn `json:"columns"`
	CallCenterNumbers []string       `json:"callCenterNumbers"`
}

// CtaSettings configures the landing call-to-action block
type CtaSettings struct {
	Enabled bool   `json:"enabled"`
	TextFr  string `json:"textFr"`
	TextAr  string `json:"textAr"`
	URL     string `json:"url"`
}

// LogoSettings configures the site logo
type LogoSettings struct {
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText"`
}

// CategorySetting describes one listing category with per-language labels
type CategorySetting struct {
	Value   string `json:"value"`
	LabelFr string `json:"labelFr"`
	LabelAr string `json:"labelAr"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Visible bool   `json:"visible"`
}
