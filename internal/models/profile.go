package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Relation string

const (
	RelationFamily    Relation = "Family"
	RelationParent    Relation = "Parent"
	RelationFriend    Relation = "Friend"
	RelationSibling   Relation = "Sibling"
	RelationColleague Relation = "Colleague"
	RelationSpouse    Relation = "Spouse"
	RelationChild     Relation = "Child"
	RelationOther     Relation = "Other"
)

var Relationships = []Relation{
	RelationFamily,
	RelationParent,
	RelationFriend,
	RelationSibling,
	RelationColleague,
	RelationSpouse,
	RelationChild,
	RelationOther,
}

type Gender string

const (
	GenderFemale    Gender = "Female"
	GenderMale      Gender = "Male"
	GenderNonBinary Gender = "Non-binary"
)

var Genders = []Gender{GenderFemale, GenderMale, GenderNonBinary}

type Occasion string

var Occasions = []Occasion{
	"Birthday",
	"Holiday",
	"Anniversary",
	"Wedding",
	"Graduation",
	"Retirement",
	"Expecting Parents",
	"New Job",
	"Housewarming",
	"Just Because",
	"Valentine's",
}

type Taste string

var Tastes = []Taste{
	"Luxury",
	"Minimalist",
	"DIY/Handmade",
	"Tech/Gadget",
	"Practical",
	"Sentimental",
	"Fun/Quirky",
	"Eco-friendly",
	"Vintage",
	"Bohemian",
	"Artistic",
	"Foodie",
}

// TasteSet keeps the selected taste tags in selection order. The wire format
// is the comma-separated string the form produces; everywhere else it is a
// real slice.
type TasteSet []Taste

func (s TasteSet) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func ParseTasteSet(raw string) TasteSet {
	var set TasteSet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		set = append(set, Taste(part))
	}
	return set
}

func (s TasteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TasteSet) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseTasteSet(raw)
	return nil
}

// RecipientProfile is the full intake-form payload. Once submitted it is
// treated as immutable; history keeps its own copies.
type RecipientProfile struct {
	Relation       Relation `json:"relation"`
	CustomRelation string   `json:"customRelation,omitempty"`
	Age            string   `json:"age"`
	Gender         Gender   `json:"gender"`
	Occasion       Occasion `json:"occasion"`
	Taste          TasteSet `json:"taste"`
	Budget         string   `json:"budget"`
	Currency       string   `json:"currency"`
	Interests      string   `json:"interests"`
	Exclusions     string   `json:"exclusions,omitempty"`
	IsAcquaintance bool     `json:"isAcquaintance,omitempty"`
}

// EffectiveRelation resolves "Other" to the free-text relation the user typed.
func (p RecipientProfile) EffectiveRelation() string {
	if p.Relation == RelationOther && strings.TrimSpace(p.CustomRelation) != "" {
		return strings.TrimSpace(p.CustomRelation)
	}
	return string(p.Relation)
}

// FormSteps is the number of wizard steps the intake form presents.
const FormSteps = 4

// ValidateStep checks the fields collected on one wizard step. The form may
// not advance past a step that fails here.
func (p RecipientProfile) ValidateStep(step int) error {
	switch step {
	case 1:
		if p.Relation == "" {
			return fmt.Errorf("relationship is required")
		}
		if p.Relation == RelationOther && strings.TrimSpace(p.CustomRelation) == "" {
			return fmt.Errorf("custom relationship is required when relationship is %q", RelationOther)
		}
		if strings.TrimSpace(p.Age) == "" {
			return fmt.Errorf("age is required")
		}
		if p.Gender == "" {
			return fmt.Errorf("gender is required")
		}
		return nil
	case 2:
		if p.Occasion == "" {
			return fmt.Errorf("occasion is required")
		}
		if len(p.Taste) == 0 {
			return fmt.Errorf("at least one taste tag is required")
		}
		return nil
	case 3:
		if strings.TrimSpace(p.Budget) == "" {
			return fmt.Errorf("budget is required")
		}
		if _, ok := CurrencyByCode(p.Currency); !ok {
			return fmt.Errorf("unknown currency %q", p.Currency)
		}
		return nil
	case 4:
		if strings.TrimSpace(p.Interests) == "" {
			return fmt.Errorf("interests are required")
		}
		return nil
	default:
		return fmt.Errorf("unknown form step %d", step)
	}
}

// Validate reports whether the profile is submittable, i.e. every wizard
// step would let the user advance. Exclusions stay optional.
func (p RecipientProfile) Validate() error {
	for step := 1; step <= FormSteps; step++ {
		if err := p.ValidateStep(step); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}
