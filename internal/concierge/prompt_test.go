package concierge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftgenius/giftgenius-api/internal/models"
)

func testProfile() models.RecipientProfile {
	return models.RecipientProfile{
		Relation:  models.RelationFriend,
		Age:       "30-40",
		Gender:    models.GenderFemale,
		Occasion:  "Birthday",
		Taste:     models.ParseTasteSet("Minimalist, Foodie"),
		Budget:    "Around $150",
		Currency:  "USD",
		Interests: "specialty coffee, hiking",
	}
}

func TestBuildPrompt_IncludesEveryField(t *testing.T) {
	p := testProfile()
	p.Exclusions = "candles, alcohol"

	prompt := BuildPrompt(p)

	assert.Contains(t, prompt, "Age: 30-40")
	assert.Contains(t, prompt, "Gender: Female")
	assert.Contains(t, prompt, "Relationship to giver: Friend")
	assert.Contains(t, prompt, "Occasion: Birthday")
	assert.Contains(t, prompt, "Taste/Style: Minimalist, Foodie")
	assert.Contains(t, prompt, "Target Budget: Around $150 (Currency is USD, US Dollar)")
	assert.Contains(t, prompt, "Key Interests/Hobbies: specialty coffee, hiking")
	assert.Contains(t, prompt, "Exclusions (DO NOT SUGGEST THESE): candles, alcohol")
	assert.Contains(t, prompt, "7 specific, personalized, and purchasable gift ideas")
	assert.Contains(t, prompt, "Avoid generic gift cards")
	assert.Contains(t, prompt, "up to 20%")
}

func TestBuildPrompt_EmptyExclusionsStatedAsNone(t *testing.T) {
	p := testProfile()
	p.Exclusions = ""

	prompt := BuildPrompt(p)
	assert.Contains(t, prompt, "Exclusions (DO NOT SUGGEST THESE): None")
}

func TestBuildPrompt_CustomRelation(t *testing.T) {
	p := testProfile()
	p.Relation = models.RelationOther
	p.CustomRelation = "Mentor"

	prompt := BuildPrompt(p)
	assert.Contains(t, prompt, "Relationship to giver: Mentor")
}

func TestBuildPrompt_AcquaintanceStrategy(t *testing.T) {
	// Scenario: the giver barely knows a recipient who "works in marketing".
	p := testProfile()
	p.Interests = "works in marketing"
	p.IsAcquaintance = true

	prompt := BuildPrompt(p)

	assert.Contains(t, prompt, "Gifting Strategy")
	assert.Contains(t, prompt, "low-risk, broadly appealing")
	assert.Contains(t, prompt, "premium consumables")
	assert.NotContains(t, prompt, "lean into niche hobbies")

	withoutFlag := testProfile()
	assert.NotContains(t, BuildPrompt(withoutFlag), "Gifting Strategy")
}

func TestResponseSchema_RequiredFields(t *testing.T) {
	schema := responseSchema()

	assert.ElementsMatch(t,
		[]string{"title", "reason", "retailer", "estimatedPrice", "imageKeyword"},
		schema.Items.Required,
	)
	assert.Len(t, schema.Items.Properties, len(schema.Items.Required),
		"the schema declares no optional fields")
}
