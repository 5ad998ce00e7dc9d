package progression

import (
	"github.com/mfournier/cubetag/internal/models"
)

// Achievement pairs an ID with a pure predicate over an account's lifetime
// counters and an optional cosmetic reward. Predicates must not have side
// effects and must not depend on other achievements.
type Achievement struct {
	// ID is the stable achievement identifier
	ID string

	// Name is the human label shown to players
	Name string

	// Desc describes how to unlock it
	Desc string

	// Unlocked is the predicate over lifetime counters
	Unlocked func(models.StatCounters) bool

	// RewardSkin is the cosmetic granted on unlock, empty if none
	RewardSkin string

	// SkinName is the display name of the reward skin
	SkinName string
}

// Achievements is the static catalog, loaded once at startup. Evaluation
// order is definition order.
var Achievements = []Achievement{
	{
		ID:         "first_blood",
		Name:       "First Blood",
		Desc:       "Inflict 1 tag",
		Unlocked:   func(s models.StatCounters) bool { return s.TagsInflicted >= 1 },
		RewardSkin: "#ff0000",
		SkinName:   "Blood Red",
	},
	{
		ID:         "hunter_pro",
		Name:       "Pro Hunter",
		Desc:       "Inflict 10 tags",
		Unlocked:   func(s models.StatCounters) bool { return s.TagsInflicted >= 10 },
		RewardSkin: "linear-gradient(45deg, #ff9a9e 0%, #fecfef 99%, #fecfef 100%)",
		SkinName:   "Dawn",
	},
	{
		ID:         "master_hunter",
		Name:       "Master Hunter",
		Desc:       "Inflict 50 tags",
		Unlocked:   func(s models.StatCounters) bool { return s.TagsInflicted >= 50 },
		RewardSkin: "skin-neon",
		SkinName:   "Neon",
	},
	{
		ID:         "traveler",
		Name:       "Traveler",
		Desc:       "Travel 5,000px",
		Unlocked:   func(s models.StatCounters) bool { return s.DistanceTraveled >= 5000 },
		RewardSkin: "#00ccff",
		SkinName:   "Azure",
	},
	{
		ID:         "marathon",
		Name:       "Marathoner",
		Desc:       "Travel 20,000px",
		Unlocked:   func(s models.StatCounters) bool { return s.DistanceTraveled >= 20000 },
		RewardSkin: "linear-gradient(to right, #f12711, #f5af19)",
		SkinName:   "Fire",
	},
	{
		ID:         "veteran",
		Name:       "Veteran",
		Desc:       "Travel 1,000,000px",
		Unlocked:   func(s models.StatCounters) bool { return s.DistanceTraveled >= 1000000 },
		RewardSkin: "skin-plasma",
		SkinName:   "Plasma",
	},
	{
		ID:         "architect",
		Name:       "Architect",
		Desc:       "Change the background 5 times",
		Unlocked:   func(s models.StatCounters) bool { return s.BackgroundsChanged >= 5 },
		RewardSkin: "#9b59b6",
		SkinName:   "Amethyst",
	},
	{
		ID:         "survivor",
		Name:       "Punching Bag",
		Desc:       "Get tagged 10 times",
		Unlocked:   func(s models.StatCounters) bool { return s.TimesTagged >= 10 },
		RewardSkin: "#7f8c8d",
		SkinName:   "Ghost",
	},
	{
		ID:   "god_mode",
		Name: "Game God",
		Desc: "Unlock everything (impossible)",
		// Placeholder: never unlockable through play
		Unlocked:   func(models.StatCounters) bool { return false },
		RewardSkin: "skin-rainbow",
		SkinName:   "Divine Light",
	},
	{
		ID:         "white_walker",
		Name:       "White Walker",
		Desc:       "Travel 2,000,000px",
		Unlocked:   func(s models.StatCounters) bool { return s.DistanceTraveled >= 2000000 },
		RewardSkin: "skin-snow",
		SkinName:   "Eternal Winter",
	},
	{
		ID:         "badapple",
		Name:       "Bad Apple!",
		Desc:       "Join 100 games",
		Unlocked:   func(s models.StatCounters) bool { return s.GamesJoined >= 100 },
		RewardSkin: "https://files.catbox.moe/8a4984.gif",
		SkinName:   "Bad Apple!",
	},
	{
		ID:         "cat",
		Name:       "Kawaii Cat",
		Desc:       "Join 1000 games",
		Unlocked:   func(s models.StatCounters) bool { return s.GamesJoined >= 1000 },
		RewardSkin: "skin-kawaii-cat",
		SkinName:   "Kawaii Cat",
	},
	{
		ID:         "inverser",
		Name:       "Upside Down",
		Desc:       "Inflict 100 tags",
		Unlocked:   func(s models.StatCounters) bool { return s.TagsInflicted >= 100 },
		RewardSkin: "skin-negative",
		SkinName:   "Negative",
	},
	{
		ID:         "hiden",
		Name:       "Hidden Cube",
		Desc:       "Get tagged 100 times",
		Unlocked:   func(s models.StatCounters) bool { return s.TimesTagged >= 100 },
		RewardSkin: "skin-hiden",
		SkinName:   "Hidden Cube",
	},
	{
		ID:         "triangle",
		Name:       "Triangle Cube?",
		Desc:       "Change the background 5 times",
		Unlocked:   func(s models.StatCounters) bool { return s.BackgroundsChanged >= 5 },
		RewardSkin: "skin-triangle",
		SkinName:   "Triangle Cube?",
	},
	{
		ID:         "eyes",
		Name:       "Cube 👁️👄👁️",
		Desc:       "Travel 4,000,000px",
		Unlocked:   func(s models.StatCounters) bool { return s.DistanceTraveled >= 4000000 },
		RewardSkin: "skin-eyes",
		SkinName:   "👁️👄👁️",
	},
}

// Evaluate checks every achievement the account has not unlocked yet and
// grants the ones whose predicate now holds, including their cosmetic
// rewards. It returns the newly crossed achievements in catalog order.
// Re-evaluating with unchanged counters returns nothing.
func Evaluate(account *models.Account) []Achievement {
	var unlocked []Achievement
	for _, def := range Achievements {
		if account.HasAchievement(def.ID) {
			continue
		}
		if !def.Unlocked(account.Stats) {
			continue
		}
		account.Achievements = append(account.Achievements, def.ID)
		if def.RewardSkin != "" && !account.OwnsCosmetic(def.RewardSkin) {
			account.Cosmetics = append(account.Cosmetics, def.RewardSkin)
		}
		unlocked = append(unlocked, def)
	}
	return unlocked
}
