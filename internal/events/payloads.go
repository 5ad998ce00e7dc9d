package events

// PlayerState is the public view of one session entry.
type PlayerState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// SessionSnapshotPayload is sent to a connection right after it connects.
type SessionSnapshotPayload struct {
	Players    []PlayerState `json:"players"`
	WolfID     string        `json:"wolfId,omitempty"`
	Background string        `json:"background,omitempty"`
}

// JoinedPayload echoes the joining player's own state back to them.
type JoinedPayload struct {
	Player PlayerState `json:"player"`
}

// PlayerJoinedPayload announces a new player to everyone else.
type PlayerJoinedPayload struct {
	Player PlayerState `json:"player"`
}

// PlayerMovedPayload fans a position update out to the other connections.
type PlayerMovedPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PlayerRemovedPayload announces that a session is gone.
type PlayerRemovedPayload struct {
	ID string `json:"id"`
}

// WolfChangedPayload announces the new role holder. WolfID is empty when the
// arena emptied and nobody is the wolf.
type WolfChangedPayload struct {
	WolfID string `json:"wolfId,omitempty"`
}

// TagEffectPayload carries the impact point of a successful tag.
type TagEffectPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// BackgroundChangedPayload carries the new shared background.
type BackgroundChangedPayload struct {
	Image string `json:"image"`
}

// CosmeticChangedPayload announces a player's new color or skin.
type CosmeticChangedPayload struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// UnlockedAchievement is one newly crossed achievement.
type UnlockedAchievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Skin     string `json:"skin,omitempty"`
	SkinName string `json:"skinName,omitempty"`
}

// AchievementsUnlockedPayload notifies a connection of its new achievements.
type AchievementsUnlockedPayload struct {
	Achievements []UnlockedAchievement `json:"achievements"`
}

// SkinGrant is one cosmetic added to the unlocked set.
type SkinGrant struct {
	Skin string `json:"skin"`
	Name string `json:"name"`
}

// CosmeticsUnlockedPayload notifies a connection of its new cosmetics.
type CosmeticsUnlockedPayload struct {
	Skins []SkinGrant `json:"skins"`
}

// UploadRejectedPayload tells the uploader why a background was refused.
type UploadRejectedPayload struct {
	Reason string `json:"reason"`
}

// ProfileStats mirrors the lifetime counters for the client.
type ProfileStats struct {
	TagsInflicted      int64 `json:"tagsInflicted"`
	TimesTagged        int64 `json:"timesTagged"`
	GamesJoined        int64 `json:"gamesJoined"`
	DistanceTraveled   int64 `json:"distanceTraveled"`
	BackgroundsChanged int64 `json:"backgroundsChanged"`
}

// CatalogEntry is one achievement definition with its unlock state.
type CatalogEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Skin     string `json:"skin,omitempty"`
	SkinName string `json:"skinName,omitempty"`
	Unlocked bool   `json:"unlocked"`
}

// ProfilePayload answers a profile request. Guests get the catalog with
// zeroed stats and no unlocks.
type ProfilePayload struct {
	Registered bool           `json:"registered"`
	Handle     string         `json:"handle,omitempty"`
	Cosmetic   string         `json:"cosmetic,omitempty"`
	Stats      ProfileStats   `json:"stats"`
	Cosmetics  []string       `json:"cosmetics,omitempty"`
	Catalog    []CatalogEntry `json:"catalog"`
}

// CodeAcceptedPayload confirms a redeemed secret code.
type CodeAcceptedPayload struct {
	RewardName string `json:"rewardName"`
	Skin       string `json:"skin"`
}

// CodeRejectedPayload tells the sender why a code was refused.
type CodeRejectedPayload struct {
	Reason string `json:"reason"`
}

// ForcedToLobbyPayload tells a specific connection it was removed.
type ForcedToLobbyPayload struct {
	Reason string `json:"reason"`
}
