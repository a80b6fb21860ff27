package prefs

import (
	"math"
	"testing"

	"github.com/rushteam/dinekit/core"
)

func TestInferWeightDeltas(t *testing.T) {
	spicy := core.NewDish("mapo tofu", "Mapo Tofu")
	spicy.FlavorProfiles = []string{"spicy", "savory"}
	spicy.CookingMethods = []string{"braised"}
	spicy.CuisineType = "chinese"

	bland := core.NewDish("plain oatmeal", "Plain Oatmeal")
	bland.FlavorProfiles = []string{"mild"}
	bland.CuisineType = core.CuisineOther

	ratings := []core.Rating{
		{DishKey: "mapo tofu", Direction: core.RatingLiked, Strength: 1.0},    // i=0
		{DishKey: "plain oatmeal", Direction: core.RatingDisliked, Strength: 0.8}, // i=1
	}
	dishes := map[string]*core.Dish{"mapo tofu": spicy, "plain oatmeal": bland}

	deltas := InferWeightDeltas(ratings, dishes)

	if math.Abs(deltas.Flavor["spicy"]-1.0) > 1e-9 {
		t.Errorf("spicy delta = %v, want 1.0", deltas.Flavor["spicy"])
	}
	want := -0.8 * DecayFactor
	if math.Abs(deltas.Flavor["mild"]-want) > 1e-9 {
		t.Errorf("mild delta = %v, want %v", deltas.Flavor["mild"], want)
	}
	if math.Abs(deltas.Cuisine["chinese"]-1.0) > 1e-9 {
		t.Errorf("chinese delta = %v, want 1.0", deltas.Cuisine["chinese"])
	}
	// "other" 菜系不计信号
	if _, ok := deltas.Cuisine[core.CuisineOther]; ok {
		t.Error("sentinel cuisine must not accumulate weight")
	}
}

func TestApplyWeightDeltasClampsNegatives(t *testing.T) {
	state := core.NewUserPreferenceState("alice")
	state.InitOnboardingWeights([]string{"thai"}, []string{"spicy"}, nil)

	deltas := WeightDeltas{
		Cuisine: map[string]float64{"thai": -2.0},
		Flavor:  map[string]float64{"spicy": 0.5},
		Method:  map[string]float64{"grilled": 0.3},
	}
	ApplyWeightDeltas(state, deltas)

	if state.CuisineWeights["thai"] != 0 {
		t.Errorf("thai = %v, negative weights must clamp to 0", state.CuisineWeights["thai"])
	}
	if math.Abs(state.FlavorWeights["spicy"]-1.5) > 1e-9 {
		t.Errorf("spicy = %v, want onboarding baseline + delta", state.FlavorWeights["spicy"])
	}
	if state.MethodWeights["grilled"] != 0.3 {
		t.Errorf("grilled = %v, want 0.3", state.MethodWeights["grilled"])
	}
}
