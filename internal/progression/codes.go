package progression

import "strings"

// CodeReward is the cosmetic granted by a secret code.
type CodeReward struct {
	// Skin is the cosmetic value (hex color, CSS token or URL)
	Skin string

	// Name is the display name of the reward
	Name string
}

// secretCodes maps upper-cased codes to their rewards. Each code is
// redeemable once per account.
var secretCodes = map[string]CodeReward{
	"PATPAT":    {Skin: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)", Name: "Admin Skin"},
	"DEV2025":   {Skin: "#00ff00", Name: "Hacker Green"},
	"GOLD":      {Skin: "linear-gradient(to bottom, #f7971e, #ffd200)", Name: "Solid Gold"},
	"RAINBOW":   {Skin: "skin-rainbow", Name: "Rainbow"},
	"MATRIX":    {Skin: "skin-glitch", Name: "Matrix"},
	"BOOM":      {Skin: "skin-pulse", Name: "Pulse"},
	"PLASMA":    {Skin: "skin-plasma", Name: "Free Plasma"},
	"GENTLEMAN": {Skin: "skin-tophat", Name: "The Chic"},
	"PIXEL":     {Skin: "https://art.pixilart.com/original/sr5z26073f1b17aws3.gif", Name: "Pixel Art"},
}

// LookupCode resolves a secret code case-insensitively. The returned
// canonical form is what gets recorded in the account's redeemed set.
func LookupCode(code string) (canonical string, reward CodeReward, ok bool) {
	canonical = strings.ToUpper(strings.TrimSpace(code))
	reward, ok = secretCodes[canonical]
	return canonical, reward, ok
}
