package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	commonUUID "github.com/mfournier/cubetag/internal/common/uuid"
	"github.com/mfournier/cubetag/internal/events"
	"github.com/mfournier/cubetag/internal/models"
	"github.com/mfournier/cubetag/internal/services/arena"
	"github.com/mfournier/cubetag/internal/services/backdrop"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Config holds configuration for the websocket handler
type Config struct {
	// Hub is the connection registry the services broadcast through
	Hub *Hub

	// Service dependencies
	Arena       arena.Service
	Backdrop    backdrop.Service
	Progression progressionSvc.Service

	// UUID generates connection IDs
	UUID commonUUID.UUID
}

// Handler upgrades HTTP requests to websocket connections and dispatches
// inbound messages to the services.
type Handler struct {
	config *Config
}

// New creates a new websocket handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}
	if cfg.Arena == nil {
		return nil, errors.New("arena service cannot be nil")
	}
	if cfg.Backdrop == nil {
		return nil, errors.New("backdrop service cannot be nil")
	}
	if cfg.Progression == nil {
		return nil, errors.New("progression service cannot be nil")
	}
	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}
	return &Handler{config: cfg}, nil
}

// ServeHTTP upgrades the request and starts the connection's pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:       h.config.UUID.NewUUID(),
		identity: identityFromRequest(r),
		handler:  h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
	h.config.Hub.add(client)

	go client.writePump()
	go client.readPump()

	h.sendSnapshot(r.Context(), client)
}

// identityFromRequest reads the account handle from the query string. A
// missing or blank handle means the connection plays as a guest.
func identityFromRequest(r *http.Request) models.Identity {
	handle := strings.TrimSpace(r.URL.Query().Get("player"))
	if handle == "" {
		return models.GuestIdentity()
	}
	return models.RegisteredIdentity(handle)
}

// sendSnapshot gives a fresh connection the full arena and background state.
func (h *Handler) sendSnapshot(ctx context.Context, client *Client) {
	snapshot, err := h.config.Arena.Snapshot(ctx, &arena.SnapshotInput{})
	if err != nil {
		log.Printf("ws: snapshot failed for %s: %v", client.id, err)
		return
	}
	background, err := h.config.Backdrop.Current(ctx)
	if err != nil {
		log.Printf("ws: background read failed for %s: %v", client.id, err)
		return
	}

	h.config.Hub.SendTo(client.id, events.Event{
		Type: events.TypeSessionSnapshot,
		Payload: events.SessionSnapshotPayload{
			Players:    snapshot.Players,
			WolfID:     snapshot.WolfID,
			Background: background.Image,
		},
	})
}

// disconnect tears down everything tied to a connection. The arena handles
// the role handoff and the stat flush.
func (h *Handler) disconnect(client *Client) {
	ctx := context.Background()
	h.config.Hub.remove(client)
	if _, err := h.config.Arena.Leave(ctx, &arena.LeaveInput{ConnID: client.id}); err != nil {
		log.Printf("ws: leave failed for %s: %v", client.id, err)
	}
	if err := h.config.Backdrop.ForgetConn(ctx, &backdrop.ForgetConnInput{ConnID: client.id}); err != nil {
		log.Printf("ws: cooldown cleanup failed for %s: %v", client.id, err)
	}
}

// handleMessage dispatches one inbound frame. Malformed frames are logged
// and dropped; a misbehaving client cannot take the server down.
func (h *Handler) handleMessage(client *Client, raw []byte) {
	var msg envelope
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("ws: malformed frame from %s: %v", client.id, err)
		return
	}

	ctx := context.Background()
	switch msg.Type {
	case msgJoin:
		h.handleJoin(ctx, client)
	case msgLeave:
		if _, err := h.config.Arena.Leave(ctx, &arena.LeaveInput{ConnID: client.id}); err != nil {
			log.Printf("ws: leave failed for %s: %v", client.id, err)
		}
	case msgMove:
		h.handleMove(ctx, client, msg.Payload)
	case msgTag:
		h.handleTag(ctx, client, msg.Payload)
	case msgChangeBackground:
		h.handleChangeBackground(ctx, client, msg.Payload)
	case msgChangeColor:
		h.handleChangeColor(ctx, client, msg.Payload)
	case msgRedeemCode:
		h.handleRedeemCode(ctx, client, msg.Payload)
	case msgGetProfile:
		h.handleGetProfile(ctx, client)
	default:
		log.Printf("ws: unknown message type %q from %s", msg.Type, client.id)
	}
}

func (h *Handler) handleJoin(ctx context.Context, client *Client) {
	output, err := h.config.Arena.Join(ctx, &arena.JoinInput{
		ConnID:   client.id,
		Identity: client.identity,
	})
	if err != nil {
		log.Printf("ws: join failed for %s: %v", client.id, err)
		return
	}
	if output.AlreadyJoined {
		return
	}
	h.config.Hub.SendTo(client.id, events.Event{
		Type:    events.TypeJoined,
		Payload: events.JoinedPayload{Player: output.Player},
	})
}

func (h *Handler) handleMove(ctx context.Context, client *Client, payload json.RawMessage) {
	var move movePayload
	if err := json.Unmarshal(payload, &move); err != nil {
		log.Printf("ws: malformed move from %s: %v", client.id, err)
		return
	}
	if _, err := h.config.Arena.Move(ctx, &arena.MoveInput{
		ConnID: client.id,
		X:      move.X,
		Y:      move.Y,
	}); err != nil {
		log.Printf("ws: move failed for %s: %v", client.id, err)
	}
}

func (h *Handler) handleTag(ctx context.Context, client *Client, payload json.RawMessage) {
	var tag tagPayload
	if err := json.Unmarshal(payload, &tag); err != nil {
		log.Printf("ws: malformed tag from %s: %v", client.id, err)
		return
	}
	// Failed tags are expected under lag and stay silent.
	if _, err := h.config.Arena.TagPlayer(ctx, &arena.TagPlayerInput{
		ConnID:   client.id,
		TargetID: tag.TargetID,
	}); err != nil {
		log.Printf("ws: tag failed for %s: %v", client.id, err)
	}
}

func (h *Handler) handleChangeBackground(ctx context.Context, client *Client, payload json.RawMessage) {
	var change changeBackgroundPayload
	if err := json.Unmarshal(payload, &change); err != nil {
		log.Printf("ws: malformed background change from %s: %v", client.id, err)
		return
	}

	output, err := h.config.Backdrop.RequestChange(ctx, &backdrop.RequestChangeInput{
		ConnID:   client.id,
		Identity: client.identity,
		Image:    change.Image,
	})
	if err != nil {
		log.Printf("ws: background change failed for %s: %v", client.id, err)
		h.config.Hub.SendTo(client.id, events.Event{
			Type:    events.TypeUploadRejected,
			Payload: events.UploadRejectedPayload{Reason: "moderation is unavailable, try again later"},
		})
		return
	}
	if output.Accepted {
		return
	}

	reason := output.Reason
	if output.Flagged {
		reason = "image rejected by moderation"
	}
	h.config.Hub.SendTo(client.id, events.Event{
		Type:    events.TypeUploadRejected,
		Payload: events.UploadRejectedPayload{Reason: reason},
	})
}

func (h *Handler) handleChangeColor(ctx context.Context, client *Client, payload json.RawMessage) {
	var change changeColorPayload
	if err := json.Unmarshal(payload, &change); err != nil {
		log.Printf("ws: malformed color change from %s: %v", client.id, err)
		return
	}
	if strings.TrimSpace(change.Color) == "" {
		return
	}
	if _, err := h.config.Arena.ChangeCosmetic(ctx, &arena.ChangeCosmeticInput{
		ConnID: client.id,
		Color:  change.Color,
	}); err != nil {
		log.Printf("ws: color change failed for %s: %v", client.id, err)
	}
}

func (h *Handler) handleRedeemCode(ctx context.Context, client *Client, payload json.RawMessage) {
	var redeem redeemCodePayload
	if err := json.Unmarshal(payload, &redeem); err != nil {
		log.Printf("ws: malformed code from %s: %v", client.id, err)
		return
	}

	output, err := h.config.Progression.RedeemCode(ctx, &progressionSvc.RedeemCodeInput{
		Identity: client.identity,
		Code:     redeem.Code,
	})
	if err != nil {
		h.config.Hub.SendTo(client.id, events.Event{
			Type:    events.TypeCodeRejected,
			Payload: events.CodeRejectedPayload{Reason: codeRejectionReason(err)},
		})
		return
	}
	h.config.Hub.SendTo(client.id, events.Event{
		Type: events.TypeCodeAccepted,
		Payload: events.CodeAcceptedPayload{
			RewardName: output.RewardName,
			Skin:       output.Skin,
		},
	})
}

func (h *Handler) handleGetProfile(ctx context.Context, client *Client) {
	output, err := h.config.Progression.GetProfile(ctx, &progressionSvc.GetProfileInput{
		Identity: client.identity,
	})
	if err != nil {
		log.Printf("ws: profile read failed for %s: %v", client.id, err)
		return
	}

	payload := events.ProfilePayload{
		Registered: client.identity.Registered(),
		Handle:     client.identity.Handle,
	}
	if output.Account != nil {
		payload.Cosmetic = output.Account.Cosmetic
		payload.Stats = events.ProfileStats{
			TagsInflicted:      output.Account.Stats.TagsInflicted,
			TimesTagged:        output.Account.Stats.TimesTagged,
			GamesJoined:        output.Account.Stats.GamesJoined,
			DistanceTraveled:   output.Account.Stats.DistanceTraveled,
			BackgroundsChanged: output.Account.Stats.BackgroundsChanged,
		}
		payload.Cosmetics = output.Account.Cosmetics
	}
	for _, def := range output.Catalog {
		payload.Catalog = append(payload.Catalog, events.CatalogEntry{
			ID:       def.ID,
			Name:     def.Name,
			Desc:     def.Desc,
			Skin:     def.RewardSkin,
			SkinName: def.SkinName,
			Unlocked: output.Account != nil && output.Account.HasAchievement(def.ID),
		})
	}

	h.config.Hub.SendTo(client.id, events.Event{
		Type:    events.TypeProfile,
		Payload: payload,
	})
}

func codeRejectionReason(err error) string {
	switch {
	case errors.Is(err, progressionSvc.ErrCodeUnknown):
		return "unknown code"
	case errors.Is(err, progressionSvc.ErrCodeAlreadyRedeemed):
		return "code already redeemed"
	case errors.Is(err, progressionSvc.ErrGuestAccount):
		return "sign in to redeem codes"
	default:
		log.Printf("ws: code redemption failed: %v", err)
		return "could not redeem code, try again later"
	}
}
