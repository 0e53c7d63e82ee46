package models

import "time"

// GiftIdea is one structured recommendation. ImageURL is never requested
// from the model; it is derived locally from ImageKeyword.
type GiftIdea struct {
	Title          string `json:"title"`
	Reason         string `json:"reason"`
	Retailer       string `json:"retailer"`
	EstimatedPrice string `json:"estimatedPrice"`
	ImageKeyword   string `json:"imageKeyword"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

// HistoryItem is one successful generation, newest first in the log.
type HistoryItem struct {
	Date    time.Time        `json:"date"`
	Profile RecipientProfile `json:"profile"`
	Ideas   []GiftIdea       `json:"ideas"`
}
