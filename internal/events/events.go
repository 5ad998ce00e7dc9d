package events

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/mfournier/cubetag/internal/events Broadcaster

// Event is the outbound wire envelope for the real-time channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Broadcaster delivers events to live connections. Implemented by the
// websocket hub; services only see this interface.
type Broadcaster interface {
	// Broadcast sends the event to every live connection
	Broadcast(event Event)

	// BroadcastExcept sends the event to every live connection but one
	BroadcastExcept(exceptConnID string, event Event)

	// SendTo sends the event to a single connection, a no-op if it is gone
	SendTo(connID string, event Event)
}

// Outbound event types.
const (
	TypeSessionSnapshot      = "sessionSnapshot"
	TypeJoined               = "joined"
	TypePlayerJoined         = "playerJoined"
	TypePlayerMoved          = "playerMoved"
	TypePlayerRemoved        = "playerRemoved"
	TypeWolfChanged          = "wolfChanged"
	TypeTagEffect            = "tagEffect"
	TypeBackgroundChanged    = "backgroundChanged"
	TypeCosmeticChanged      = "cosmeticChanged"
	TypeAchievementsUnlocked = "achievementsUnlocked"
	TypeCosmeticsUnlocked    = "cosmeticsUnlocked"
	TypeUploadRejected       = "uploadRejected"
	TypeProfile              = "profile"
	TypeCodeAccepted         = "codeAccepted"
	TypeCodeRejected         = "codeRejected"
	TypeForcedToLobby        = "forcedToLobby"
)

// Reasons carried by TypeForcedToLobby.
const (
	LobbyReasonAFK         = "afk"
	LobbyReasonBanned      = "banned"
	LobbyReasonMaintenance = "maintenance"
	LobbyReasonKicked      = "kicked"
)
