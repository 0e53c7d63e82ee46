// Package share serializes a profile plus its gift list into a compact
// URL-safe token so a result set can be reshared statelessly. Image URLs are
// deliberately dropped from the payload and regenerated from the image
// keyword on decode to keep tokens short.
package share

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/giftgenius/giftgenius-api/internal/links"
	"github.com/giftgenius/giftgenius-api/internal/models"
)

// QueryParam is the page query parameter carrying the token.
const QueryParam = "share"

type SharedState struct {
	Profile models.RecipientProfile `json:"profile"`
	Gifts   []models.GiftIdea       `json:"gifts"`
}

// Long keys dominate token size, so the payload maps them to short ones.
type payload struct {
	Profile models.RecipientProfile `json:"p"`
	Gifts   []miniGift              `json:"g"`
}

type miniGift struct {
	Title    string `json:"t"`
	Reason   string `json:"r"`
	Retailer string `json:"ret"`
	Price    string `json:"p"`
	Keyword  string `json:"k"`
}

// Encode builds the minimized payload and base64-encodes its UTF-8 JSON
// bytes with the URL-safe alphabet, so multi-byte characters (currency
// symbols, accented names) round-trip intact.
func Encode(profile models.RecipientProfile, gifts []models.GiftIdea) (string, error) {
	p := payload{Profile: profile, Gifts: make([]miniGift, len(gifts))}
	for i, g := range gifts {
		p.Gifts[i] = miniGift{
			Title:    g.Title,
			Reason:   g.Reason,
			Retailer: g.Retailer,
			Price:    g.EstimatedPrice,
			Keyword:  g.ImageKeyword,
		}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Any defect in the token (bad base64, bad JSON, a
// missing or non-array gifts field) yields nil: a broken share link must
// never break page load.
func Decode(token string) *SharedState {
	if token == "" {
		return nil
	}
	raw, err := decodeBase64(token)
	if err != nil {
		return nil
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	if p.Gifts == nil {
		return nil
	}
	state := &SharedState{Profile: p.Profile, Gifts: make([]models.GiftIdea, len(p.Gifts))}
	for i, g := range p.Gifts {
		state.Gifts[i] = models.GiftIdea{
			Title:          g.Title,
			Reason:         g.Reason,
			Retailer:       g.Retailer,
			EstimatedPrice: g.Price,
			ImageKeyword:   g.Keyword,
			ImageURL:       links.ImageURL(g.Keyword),
		}
	}
	return state
}

// Tokens minted here use the unpadded URL-safe alphabet, but links pasted
// from elsewhere may carry padding or the standard alphabet.
func decodeBase64(token string) ([]byte, error) {
	trimmed := strings.TrimRight(token, "=")
	if raw, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(trimmed)
}

// BuildURL appends the token to the page URL as the share query parameter.
func BuildURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts and decodes the share token from a page URL. A URL
// without the parameter is not an error, just no shared state.
func FromURL(raw string) *SharedState {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return Decode(u.Query().Get(QueryParam))
}
