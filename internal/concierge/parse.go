package concierge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giftgenius/giftgenius-api/internal/models"
)

// stripFences removes markdown code-fence markup some models wrap JSON in,
// with or without the json language tag.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

type giftRecord struct {
	Title          string `json:"title"`
	Reason         string `json:"reason"`
	Retailer       string `json:"retailer"`
	EstimatedPrice string `json:"estimatedPrice"`
	ImageKeyword   string `json:"imageKeyword"`
}

var requiredFields = []string{"title", "reason", "retailer", "estimatedPrice", "imageKeyword"}

func (r giftRecord) missingField() string {
	values := []string{r.Title, r.Reason, r.Retailer, r.EstimatedPrice, r.ImageKeyword}
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			return requiredFields[i]
		}
	}
	return ""
}

// parseIdeas validates the raw model text into gift records. The whole
// attempt fails if the top-level array does not validate; malformed elements
// are never silently dropped. The model is asked for 7 ideas but any
// non-empty count is accepted (the caller logs a mismatch).
func parseIdeas(text string) ([]models.GiftIdea, error) {
	clean := stripFences(text)

	var records []giftRecord
	if err := json.Unmarshal([]byte(clean), &records); err != nil {
		return nil, parsingError(clean, err)
	}
	if len(records) == 0 {
		return nil, parsingError(clean, fmt.Errorf("response contained no gift ideas"))
	}

	ideas := make([]models.GiftIdea, len(records))
	for i, r := range records {
		if field := r.missingField(); field != "" {
			return nil, parsingError(clean, fmt.Errorf("element %d is missing required field %q", i, field))
		}
		ideas[i] = models.GiftIdea{
			Title:          r.Title,
			Reason:         r.Reason,
			Retailer:       r.Retailer,
			EstimatedPrice: r.EstimatedPrice,
			ImageKeyword:   r.ImageKeyword,
		}
	}
	return ideas, nil
}
