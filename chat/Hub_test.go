package chat_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"campusconnect/chat"
	"campusconnect/middlewares"
	"campusconnect/models"
)

// fakeStore keeps everything in memory so the hub can be exercised without a
// database.
type fakeStore struct {
	mut         sync.Mutex
	messages    []models.Message
	connections map[primitive.ObjectID][]primitive.ObjectID
	presence    map[primitive.ObjectID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		connections: make(map[primitive.ObjectID][]primitive.ObjectID),
		presence:    make(map[primitive.ObjectID]bool),
	}
}

func (f *fakeStore) SaveMessage(_ context.Context, sender, receiver primitive.ObjectID, text string) (models.Message, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) ConnectionsOf(_ context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	return f.connections[id], nil
}

func (f *fakeStore) SetPresence(_ context.Context, id primitive.ObjectID, active bool) error {
	f.mut.Lock()
	defer f.mut.Unlock()
	f.presence[id] = active
	return nil
}

func (f *fakeStore) savedCount() int {
	f.mut.Lock()
	defer f.mut.Unlock()
	return len(f.messages)
}

// newTestServer mounts the hub behind a route that authenticates via a
// ?user= query parameter instead of the cookie middleware.
func newTestServer(t *testing.T, hub *chat.Server, users map[string]models.User) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		user, ok := users[c.Query("user")]
		if !ok {
			c.AbortWithStatus(401)
			return
		}
		c.Set(middlewares.UserKey, user)
		hub.HandleWS(c)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user models.User) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + user.ID.Hex()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) chat.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev chat.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func waitOnline(t *testing.T, hub *chat.Server, id primitive.ObjectID) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !hub.Online(id) {
		if time.Now().After(deadline) {
			t.Fatalf("user %s never came online", id.Hex())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func twoConnectedUsers(store *fakeStore) (models.User, models.User) {
	alice := models.NewUser("Alice", "alice@example.com", "hash")
	bob := models.NewUser("Bob", "bob@example.com", "hash")
	alice.Connections = []primitive.ObjectID{bob.ID}
	bob.Connections = []primitive.ObjectID{alice.ID}
	store.connections[alice.ID] = alice.Connections
	store.connections[bob.ID] = bob.Connections
	return alice, bob
}

func TestHubMessageFanout(t *testing.T) {
	store := newFakeStore()
	hub := chat.NewServer(store, zap.NewNop())
	alice, bob := twoConnectedUsers(store)
	srv := newTestServer(t, hub, map[string]models.User{
		alice.ID.Hex(): alice,
		bob.ID.Hex():   bob,
	})

	aliceConn := dial(t, srv, alice)
	waitOnline(t, hub, alice.ID)
	bobConn := dial(t, srv, bob)

	// bob's arrival is announced to alice, which also proves bob finished
	// registering before alice sends
	ev := readEvent(t, aliceConn)
	assert.Equal(t, chat.ActionOnline, ev.Action)
	assert.Equal(t, bob.ID.Hex(), ev.UserID)

	err := aliceConn.WriteJSON(map[string]string{
		"action": "send",
		"to":     bob.ID.Hex(),
		"msg":    "  hi bob  ",
	})
	assert.Equal(t, nil, err)

	got := readEvent(t, bobConn)
	assert.Equal(t, chat.ActionMessage, got.Action)
	assert.Equal(t, "hi bob", got.Message.Text)
	assert.Equal(t, alice.ID, got.Message.Sender)
	assert.Equal(t, bob.ID, got.Message.Receiver)

	// the sender gets the stored copy too
	echo := readEvent(t, aliceConn)
	assert.Equal(t, chat.ActionMessage, echo.Action)
	assert.Equal(t, got.Message.ID, echo.Message.ID)

	assert.Equal(t, 1, store.savedCount())
}

func TestHubIgnoresEmptyAndMalformedSends(t *testing.T) {
	store := newFakeStore()
	hub := chat.NewServer(store, zap.NewNop())
	alice, bob := twoConnectedUsers(store)
	srv := newTestServer(t, hub, map[string]models.User{
		alice.ID.Hex(): alice,
		bob.ID.Hex():   bob,
	})

	aliceConn := dial(t, srv, alice)

	_ = aliceConn.WriteJSON(map[string]string{"action": "send", "to": bob.ID.Hex(), "msg": "   "})
	_ = aliceConn.WriteJSON(map[string]string{"action": "send", "to": "not-an-id", "msg": "hi"})
	_ = aliceConn.WriteJSON(map[string]string{"action": "send", "to": bob.ID.Hex(), "msg": "kept"})

	// the only stored message must be the valid one
	deadline := time.Now().Add(3 * time.Second)
	for store.savedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, store.savedCount())
	assert.Equal(t, "kept", store.messages[0].Text)
}

func TestHubDropsSendToNonConnection(t *testing.T) {
	store := newFakeStore()
	hub := chat.NewServer(store, zap.NewNop())
	alice, bob := twoConnectedUsers(store)
	stranger := primitive.NewObjectID()
	srv := newTestServer(t, hub, map[string]models.User{
		alice.ID.Hex(): alice,
		bob.ID.Hex():   bob,
	})

	aliceConn := dial(t, srv, alice)

	// the stranger is nobody's connection; the follow-up send to bob proves
	// the readLoop got past the rejected one
	_ = aliceConn.WriteJSON(map[string]string{"action": "send", "to": stranger.Hex(), "msg": "hi stranger"})
	_ = aliceConn.WriteJSON(map[string]string{"action": "send", "to": bob.ID.Hex(), "msg": "hi bob"})

	deadline := time.Now().Add(3 * time.Second)
	for store.savedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, store.savedCount())
	assert.Equal(t, bob.ID, store.messages[0].Receiver)
	assert.Equal(t, "hi bob", store.messages[0].Text)
}

func TestHubUnsubscribeOnTeardown(t *testing.T) {
	store := newFakeStore()
	hub := chat.NewServer(store, zap.NewNop())
	alice, bob := twoConnectedUsers(store)
	srv := newTestServer(t, hub, map[string]models.User{
		alice.ID.Hex(): alice,
		bob.ID.Hex():   bob,
	})

	aliceConn := dial(t, srv, alice)
	waitOnline(t, hub, alice.ID)
	bobConn := dial(t, srv, bob)

	ev := readEvent(t, aliceConn)
	assert.Equal(t, chat.ActionOnline, ev.Action)

	bobConn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	bobConn.Close()

	// alice hears bob leave; by then his subscription is gone
	ev = readEvent(t, aliceConn)
	assert.Equal(t, chat.ActionOffline, ev.Action)
	assert.Equal(t, bob.ID.Hex(), ev.UserID)
	assert.Equal(t, false, hub.Online(bob.ID))

	// a post for the departed user goes nowhere; alice still receives hers
	post := models.Post{ID: primitive.NewObjectID(), AuthorID: alice.ID, Content: "hello"}
	hub.NotifyPost(post, []primitive.ObjectID{alice.ID, bob.ID})

	got := readEvent(t, aliceConn)
	assert.Equal(t, chat.ActionPost, got.Action)
	assert.Equal(t, "hello", got.Post.Content)
}
