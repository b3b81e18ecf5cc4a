package server

import (
	"encoding/json"
	"errors"
	"sync"

	"landlord-game/internal/game"
	"landlord-game/internal/protocol"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub tracks the live WebSocket connections and hands their commands to the
// room registry. Outbound messages from rooms come back through sendMessageToClient.
type Hub struct {
	clients  map[string]*Client
	clientMu sync.RWMutex
	registry *game.Registry
	logger   *zap.Logger
}

// NewHub creates a Hub with its own room registry.
func NewHub(opts game.Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
	opts.Logger = logger
	h.registry = game.NewRegistry(opts, h.sendMessageToClient)
	return h
}

// Registry exposes the rooms for read-only HTTP endpoints.
func (h *Hub) Registry() *game.Registry {
	return h.registry
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	return len(h.clients)
}

// Shutdown stops every room timer.
func (h *Hub) Shutdown() {
	h.registry.Shutdown()
}

func (h *Hub) register(client *Client) {
	client.ID = uuid.NewString() // Assign a unique ID upon registration
	h.clientMu.Lock()
	h.clients[client.ID] = client
	h.clientMu.Unlock()
	h.logger.Info("client connected", zap.String("client", client.ID), zap.String("name", client.Name))
}

// unregister forgets the client and vacates its seat. Safe to call more than once.
func (h *Hub) unregister(client *Client) {
	h.clientMu.Lock()
	_, exists := h.clients[client.ID]
	if exists {
		delete(h.clients, client.ID)
		close(client.send)
	}
	h.clientMu.Unlock() // Unlock before touching any room

	if exists {
		h.logger.Info("client disconnected", zap.String("client", client.ID))
		h.registry.Disconnect(client.ID)
	}
}

// handleMessage processes a message received from a client. A panic is
// contained to the command that caused it.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling message",
				zap.Any("panic", r),
				zap.String("type", msg.Type),
				zap.String("client", client.ID),
				zap.Stack("stack"),
			)
			h.reply(client, msg.ID, protocol.AckPayload{Code: "internal", Error: "internal error"})
		}
	}()

	switch msg.Type {
	case protocol.TypeJoin:
		h.handleJoin(client, msg)
	case protocol.TypeBid:
		var payload protocol.BidPayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.ack(client, msg.ID, payload.RoomID, h.registry.Bid(payload.RoomID, client.ID, payload.Amount))
	case protocol.TypePlayCards:
		var payload protocol.PlayCardsPayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.ack(client, msg.ID, payload.RoomID, h.registry.Play(payload.RoomID, client.ID, payload.Cards))
	case protocol.TypePass:
		var payload protocol.RoomPayload
		if !h.decode(client, msg, &payload) {
			return
		}
		h.ack(client, msg.ID, payload.RoomID, h.registry.Pass(payload.RoomID, client.ID))
	case protocol.TypeHint:
		h.handleHint(client, msg)
	case protocol.TypePing:
		h.reply(client, msg.ID, nil, protocol.TypePong)
	default:
		h.logger.Debug("unknown message type", zap.String("type", msg.Type), zap.String("client", client.ID))
		h.sendError(client, "unknown_type", "Unknown message type.")
	}
}

func (h *Hub) handleJoin(client *Client, msg protocol.Message) {
	var payload protocol.JoinPayload
	if !h.decode(client, msg, &payload) {
		return
	}
	name := payload.Name
	if client.Name != "" {
		name = client.Name
	}

	roomID, seat, err := h.registry.Join(payload.RoomID, client.ID, name)
	if err != nil {
		h.ack(client, msg.ID, roomID, err)
		return
	}
	h.logger.Info("client seated", zap.String("client", client.ID), zap.String("room", roomID), zap.Int("seat", seat))
	h.reply(client, msg.ID, protocol.AckPayload{OK: true, RoomID: roomID, Seat: &seat})
}

func (h *Hub) handleHint(client *Client, msg protocol.Message) {
	var payload protocol.RoomPayload
	if !h.decode(client, msg, &payload) {
		return
	}
	cards, ok, err := h.registry.Hint(payload.RoomID, client.ID)
	if err != nil {
		h.ack(client, msg.ID, payload.RoomID, err)
		return
	}
	ack := protocol.AckPayload{OK: true, RoomID: payload.RoomID}
	if ok {
		ack.Hint = cards
	}
	h.reply(client, msg.ID, ack)
}

// decode unmarshals the payload, answering with a failed ack when it is malformed.
func (h *Hub) decode(client *Client, msg protocol.Message, v interface{}) bool {
	if len(msg.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		h.logger.Debug("bad payload", zap.String("type", msg.Type), zap.String("client", client.ID), zap.Error(err))
		h.reply(client, msg.ID, protocol.AckPayload{Code: "bad_request", Error: "Invalid " + msg.Type + " payload."})
		return false
	}
	return true
}

// ack answers a command with ok or with the error's code.
func (h *Hub) ack(client *Client, id, roomID string, err error) {
	if err == nil {
		h.reply(client, id, protocol.AckPayload{OK: true, RoomID: roomID})
		return
	}
	payload := protocol.AckPayload{RoomID: roomID, Code: "internal", Error: err.Error()}
	var gameErr *game.Error
	if errors.As(err, &gameErr) {
		payload.Code = gameErr.Code
	} else {
		h.logger.Error("command failed", zap.String("client", client.ID), zap.Error(err))
	}
	h.reply(client, id, payload)
}

// reply sends payload to client as an ack, or as msgType when one is given.
func (h *Hub) reply(client *Client, id string, payload interface{}, msgType ...string) {
	t := protocol.TypeAck
	if len(msgType) > 0 {
		t = msgType[0]
	}
	msgBytes, err := protocol.NewReply(t, id, payload)
	if err != nil {
		h.logger.Error("encode reply", zap.String("type", t), zap.Error(err))
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendError sends an error notification to a specific client.
func (h *Hub) sendError(client *Client, code, message string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Code: code, Message: message})
	if err != nil {
		h.logger.Error("encode error message", zap.Error(err))
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendMessageToClient is the rooms' MessageSender. It never blocks: a client
// whose buffer is full is dropped.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		h.logger.Debug("send to unknown client", zap.String("client", clientID))
		return
	}
	select {
	case client.send <- message:
	default:
		h.logger.Warn("send buffer full, dropping client", zap.String("client", clientID))
		if client.conn != nil {
			go client.conn.Close() // ReadPump then unregisters the client
		}
	}
}
