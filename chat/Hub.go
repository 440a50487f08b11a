package chat

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusconnect/middlewares"
	"campusconnect/models"
)

// Store is the persistence surface the hub needs: saving messages sent over
// the socket, resolving a user's connections for fanout, and recording
// presence.
type Store interface {
	SaveMessage(ctx context.Context, sender, receiver primitive.ObjectID, text string) (models.Message, error)
	ConnectionsOf(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error)
	SetPresence(ctx context.Context, id primitive.ObjectID, active bool) error
}

// Event is the envelope pushed to subscribed clients.
type Event struct {
	Action  string          `json:"action"`
	Message *models.Message `json:"message,omitempty"`
	Post    *models.Post    `json:"post,omitempty"`
	UserID  string          `json:"userId,omitempty"`
}

const (
	ActionMessage = "message"
	ActionPost    = "post"
	ActionOnline  = "online"
	ActionOffline = "offline"
)

// clientMessage is what a connected client may send upstream.
type clientMessage struct {
	Action string `json:"action"`
	To     string `json:"to"`
	Msg    string `json:"msg"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server tracks one websocket per signed-in user. A user's subscription to
// live messages and posts lasts exactly as long as their socket: teardown
// removes them from the maps and nothing is pushed afterwards.
type Server struct {
	store Store
	log   *zap.Logger

	mut    sync.Mutex
	byUser map[primitive.ObjectID]*websocket.Conn
}

func NewServer(store Store, log *zap.Logger) *Server {
	return &Server{
		store:  store,
		log:    log,
		byUser: make(map[primitive.ObjectID]*websocket.Conn),
	}
}

// HandleWS upgrades an authenticated request and serves it until the client
// disconnects.
func (s *Server) HandleWS(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.register(user.ID, conn)
	s.setPresence(user.ID, true)
	s.signalPresence(user.ID, ActionOnline)

	s.readLoop(conn, user.ID)

	s.unregister(user.ID, conn)
	s.setPresence(user.ID, false)
	s.signalPresence(user.ID, ActionOffline)
}

func (s *Server) register(id primitive.ObjectID, conn *websocket.Conn) {
	s.mut.Lock()
	defer s.mut.Unlock()
	if old, ok := s.byUser[id]; ok {
		old.Close()
	}
	s.byUser[id] = conn
}

func (s *Server) unregister(id primitive.ObjectID, conn *websocket.Conn) {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.byUser[id] == conn {
		delete(s.byUser, id)
	}
}

// Online reports whether the user currently holds a socket.
func (s *Server) Online(id primitive.ObjectID) bool {
	s.mut.Lock()
	defer s.mut.Unlock()
	_, ok := s.byUser[id]
	return ok
}

func (s *Server) readLoop(conn *websocket.Conn, sender primitive.ObjectID) {
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.log.Warn("websocket read failed", zap.Error(err))
			return
		}
		if msg.Action != "send" {
			continue
		}
		s.handleSend(sender, msg)
	}
}

func (s *Server) handleSend(sender primitive.ObjectID, msg clientMessage) {
	receiver, err := primitive.ObjectIDFromHex(msg.To)
	if err != nil {
		return
	}
	text := strings.TrimSpace(msg.Msg)
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// same precondition as the REST path: only accepted connections may
	// exchange messages
	connections, err := s.store.ConnectionsOf(ctx, sender)
	if err != nil {
		s.log.Error("resolve connections failed", zap.Error(err))
		return
	}
	connected := false
	for _, id := range connections {
		if id == receiver {
			connected = true
			break
		}
	}
	if !connected {
		return
	}

	stored, err := s.store.SaveMessage(ctx, sender, receiver, text)
	if err != nil {
		s.log.Error("store message failed", zap.Error(err))
		return
	}
	s.NotifyMessage(stored)
}

// NotifyMessage pushes a stored message to both parties, whichever of them is
// online. REST sends route through here as well so a conversation stays live
// regardless of which transport the sender used.
func (s *Server) NotifyMessage(msg models.Message) {
	event := Event{Action: ActionMessage, Message: &msg}
	s.push(msg.Sender, event)
	if msg.Receiver != msg.Sender {
		s.push(msg.Receiver, event)
	}
}

// NotifyPost pushes a new post to every listed viewer that is online.
func (s *Server) NotifyPost(post models.Post, viewers []primitive.ObjectID) {
	event := Event{Action: ActionPost, Post: &post}
	for _, id := range viewers {
		s.push(id, event)
	}
}

// signalPresence tells a user's connections they went on- or offline.
func (s *Server) signalPresence(id primitive.ObjectID, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connections, err := s.store.ConnectionsOf(ctx, id)
	if err != nil {
		s.log.Error("resolve connections failed", zap.Error(err))
		return
	}
	event := Event{Action: action, UserID: id.Hex()}
	for _, other := range connections {
		s.push(other, event)
	}
}

func (s *Server) setPresence(id primitive.ObjectID, active bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.SetPresence(ctx, id, active); err != nil {
		s.log.Error("update presence failed", zap.Error(err))
	}
}

func (s *Server) push(id primitive.ObjectID, event Event) {
	s.mut.Lock()
	defer s.mut.Unlock()
	conn, ok := s.byUser[id]
	if !ok {
		return
	}
	if err := conn.WriteJSON(event); err != nil {
		s.log.Warn("websocket write failed", zap.Error(err))
		conn.Close()
		delete(s.byUser, id)
	}
}
