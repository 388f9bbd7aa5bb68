package players

import (
	"fmt"
	"net/url"
)

// placeholderBase serves deterministic generated avatars keyed by seed.
const placeholderBase = "https://api.dicebear.com/7.x/initials/svg"

// AvatarFor resolves a player's displayable image: the uploaded avatar URL
// if present, else a placeholder derived only from the player's name (ID as
// a last resort). Pure function of the player record; nothing in the engine
// may depend on its output.
func AvatarFor(p Player) string {
	if p.AvatarURL != "" {
		return p.AvatarURL
	}
	seed := p.Name
	if seed == "" {
		seed = fmt.Sprintf("player-%d", p.ID)
	}
	return placeholderBase + "?seed=" + url.QueryEscape(seed)
}
