package concierge

import (
	"fmt"

	"github.com/giftgenius/giftgenius-api/internal/models"
	"github.com/google/generative-ai-go/genai"
)

const systemInstruction = "You are a world-class gift concierge familiar with global and local gift trends. " +
	"Your goal is to find gifts that make people say 'Wow, you really know me!'. Provide 7 distinct ideas."

const promptTemplate = `I need 7 specific, personalized, and purchasable gift ideas for the following person:
- Age: %s
- Gender: %s
- Relationship to giver: %s
- Occasion: %s
- Taste/Style: %s
- Target Budget: %s (Currency is %s, %s)
- Key Interests/Hobbies: %s
- Exclusions (DO NOT SUGGEST THESE): %s

Be creative. Avoid generic gift cards unless specifically relevant to a hobby.
Focus on items that feel personal and thoughtful.

Budget Note: The user has provided a target budget. Please suggest items that are approximately around this price point. Slightly cheaper is fine. Slightly more expensive (up to 20%%) is okay if the gift is perfect.

The 'reason' should be a single, compelling sentence connecting the gift to their specific interests and taste.

CRITICAL: Strictly adhere to the 'Exclusions'. Do not suggest any items that fall into the excluded categories.`

const acquaintanceStrategy = `

Gifting Strategy: The giver does not know the recipient very well. Prefer low-risk, broadly appealing categories: premium consumables, neutral home decor, or universally useful tech accessories. Avoid sized clothing, fandom merchandise, and polarizing items. Do not assume niche hobbies beyond what is explicitly listed under interests.`

// BuildPrompt renders the natural-language brief for one profile. Every
// populated field appears verbatim; an empty exclusions field is stated as
// "None" so the constraint block is always present.
func BuildPrompt(p models.RecipientProfile) string {
	exclusions := p.Exclusions
	if exclusions == "" {
		exclusions = "None"
	}

	currencyCode := p.Currency
	currencyName := p.Currency
	if c, ok := models.CurrencyByCode(p.Currency); ok {
		currencyName = c.Name
	}

	prompt := fmt.Sprintf(promptTemplate,
		p.Age,
		p.Gender,
		p.EffectiveRelation(),
		p.Occasion,
		p.Taste.String(),
		p.Budget,
		currencyCode,
		currencyName,
		p.Interests,
		exclusions,
	)

	if p.IsAcquaintance {
		prompt += acquaintanceStrategy
	}

	return prompt
}

// responseSchema declares the strict output shape: an array of objects with
// five required string fields and nothing optional. Parsing downstream
// rejects anything looser.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {
					Type:        genai.TypeString,
					Description: "The name of the specific gift product or experience.",
				},
				"reason": {
					Type:        genai.TypeString,
					Description: "A single, persuasive sentence explaining why this fits the recipient's profile perfectly.",
				},
				"retailer": {
					Type:        genai.TypeString,
					Description: "A specific brand name, website, or type of store to buy it from (e.g. 'Amazon', 'Etsy', 'Local Art Gallery').",
				},
				"estimatedPrice": {
					Type:        genai.TypeString,
					Description: "The approximate price range in the requested currency (e.g. '$40 - $55').",
				},
				"imageKeyword": {
					Type:        genai.TypeString,
					Description: "A specific search phrase for fetching a representative product image (e.g. 'ceramic pour over coffee set').",
				},
			},
			Required: []string{"title", "reason", "retailer", "estimatedPrice", "imageKeyword"},
		},
	}
}
