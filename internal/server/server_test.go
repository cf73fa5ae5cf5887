package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/server/db"
	"github.com/gregriff/rilmas/internal/services/rilmas"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	logx.Init(false, io.Discard)

	conn, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(NewRouter(ctx, conn, opts))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *rilmas.Client {
	t.Helper()
	srv := newTestServer(t, Options{AllowedOrigins: []string{"*"}, AuthRate: 1000, AuthBurst: 1000})
	return rilmas.NewClient(rilmas.Endpoints{Auth: srv.URL + "/auth", Chats: srv.URL + "/chats"})
}

func register(t *testing.T, c *rilmas.Client, phone, nickname, invite string) *rilmas.AuthResponse {
	t.Helper()
	res, err := c.Register(context.Background(), phone, nickname, schemas.EmojiAvatar("🚀"), invite)
	if err != nil {
		t.Fatalf("register %s: %v", nickname, err)
	}
	if err := res.Valid(); err != nil {
		t.Fatalf("register %s: %v", nickname, err)
	}
	return res
}

func statusCode(err error) int {
	var se *rilmas.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func TestRegisterAndLogin(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	alice := register(t, c, "+7 (111) 222-33-44", "Alice", "")
	if alice.User.ID <= 0 || alice.User.Name != "Alice" || !alice.User.Online {
		t.Fatalf("user = %+v", alice.User)
	}
	if len(alice.User.InviteCode) != 8 || alice.User.Phone != "+71112223344" {
		t.Fatalf("invite=%q phone=%q", alice.User.InviteCode, alice.User.Phone)
	}
	if emoji, _ := alice.User.Avatar.Emoji(); emoji != "🚀" {
		t.Fatalf("avatar = %v", alice.User.Avatar)
	}

	_, err := c.Register(ctx, "+71112223344", "Again", schemas.Avatar{}, "")
	if statusCode(err) != http.StatusBadRequest {
		t.Fatalf("duplicate phone: %v", err)
	}

	blank, err := c.Register(ctx, "5550001", "  ", schemas.Avatar{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if blank.User.Name != schemas.DefaultNickname || blank.User.Avatar.String() != "🎮" {
		t.Fatalf("defaults not applied: %+v", blank.User)
	}

	if _, err := c.Login(ctx, "+79990000000"); statusCode(err) != http.StatusNotFound {
		t.Fatalf("unknown phone: %v", err)
	}

	again, err := c.Login(ctx, "+7 111 222 33 44")
	if err != nil {
		t.Fatal(err)
	}
	if again.User.ID != alice.User.ID || again.Token == "" || again.Token == alice.Token {
		t.Fatalf("login = %+v", again)
	}
	if _, err := c.ListConversations(ctx, alice.User.ID, again.Token); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}
	if _, err := c.ListConversations(ctx, alice.User.ID, alice.Token); err != nil {
		t.Fatalf("first token revoked by login: %v", err)
	}
}

func TestInviteCreatesDirectChat(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	alice := register(t, c, "+71110000001", "Alice", "")
	bob := register(t, c, "+71110000002", "Bob", alice.User.InviteCode)

	chats, err := c.ListConversations(ctx, alice.User.ID, alice.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 1 {
		t.Fatalf("alice has %d chats, want 1", len(chats))
	}
	direct := chats[0]
	if direct.Kind != schemas.DirectChat || direct.Name != "Bob" || direct.PeerID != bob.User.ID || !direct.Online {
		t.Fatalf("direct chat = %+v", direct)
	}
	if direct.Unread != 0 || direct.LastMessage != "" {
		t.Fatalf("fresh chat = %+v", direct)
	}

	notes, err := c.ListNotifications(ctx, alice.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Type != "new_contact" || notes[0].Read {
		t.Fatalf("notifications = %+v", notes)
	}
	if notes, _ := c.ListNotifications(ctx, bob.Token); len(notes) != 0 {
		t.Fatalf("bob notifications = %+v", notes)
	}

	// an unknown code still registers, without a chat
	carol := register(t, c, "+71110000003", "Carol", "NOPE0000")
	if chats, _ := c.ListConversations(ctx, carol.User.ID, carol.Token); len(chats) != 0 {
		t.Fatalf("carol chats = %+v", chats)
	}
}

func TestMessaging(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	alice := register(t, c, "+71110000001", "Alice", "")
	bob := register(t, c, "+71110000002", "Bob", alice.User.InviteCode)
	chats, _ := c.ListConversations(ctx, bob.User.ID, bob.Token)
	chatID := chats[0].ID

	for _, text := range []string{"one", "two", "three"} {
		sent, err := c.SendMessage(ctx, schemas.Message{ChatID: chatID, SenderID: bob.User.ID, Content: text}, bob.Token)
		if err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
		if sent.MessageID <= 0 || sent.CreatedAt == "" {
			t.Fatalf("ack = %+v", sent)
		}
	}
	sticker := schemas.Message{ChatID: chatID, SenderID: alice.User.ID, Type: schemas.StickerMessage, StickerID: 4}
	if _, err := c.SendMessage(ctx, sticker, alice.Token); err != nil {
		t.Fatal(err)
	}

	msgs, err := c.ListMessages(ctx, chatID, alice.Token, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages", len(msgs))
	}
	if msgs[0].Content != "one" || msgs[0].SenderID != bob.User.ID || msgs[0].Sender != "Bob" || msgs[0].ChatID != chatID {
		t.Fatalf("first message = %+v", msgs[0])
	}
	if msgs[3].Type != schemas.StickerMessage || msgs[3].StickerID != 4 || !msgs[3].FromSelf(alice.User.ID) {
		t.Fatalf("last message = %+v", msgs[3])
	}

	page, err := c.ListMessages(ctx, chatID, alice.Token, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Content != "three" || page[1].Type != schemas.StickerMessage {
		t.Fatalf("limited page = %+v", page)
	}

	aliceChats, _ := c.ListConversations(ctx, alice.User.ID, alice.Token)
	if aliceChats[0].Unread != 3 || aliceChats[0].LastMessage != "" {
		t.Fatalf("alice sees %+v", aliceChats[0])
	}
	bobChats, _ := c.ListConversations(ctx, bob.User.ID, bob.Token)
	if bobChats[0].Unread != 1 || bobChats[0].LastMessageTime == "" {
		t.Fatalf("bob sees %+v", bobChats[0])
	}
}

func TestGroups(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	alice := register(t, c, "+71110000001", "Alice", "")
	bob := register(t, c, "+71110000002", "Bob", alice.User.InviteCode)
	direct, _ := c.ListConversations(ctx, alice.User.ID, alice.Token)
	if _, err := c.SendMessage(ctx, schemas.Message{ChatID: direct[0].ID, SenderID: alice.User.ID, Content: "hey"}, alice.Token); err != nil {
		t.Fatal(err)
	}

	groupID, err := c.CreateGroup(ctx, "  Team Dragons ", "🏆", "raids", alice.User.ID, alice.Token)
	if err != nil {
		t.Fatal(err)
	}

	chats, err := c.ListConversations(ctx, alice.User.ID, alice.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 || chats[0].ID != direct[0].ID {
		t.Fatalf("chats = %+v", chats)
	}
	group := chats[1]
	if group.ID != groupID || group.Kind != schemas.GroupChat || group.Name != "Team Dragons" || group.Avatar.String() != "🏆" {
		t.Fatalf("group = %+v", group)
	}

	if _, err := c.CreateGroup(ctx, "   ", "", "", alice.User.ID, alice.Token); statusCode(err) != http.StatusBadRequest {
		t.Fatalf("blank group name: %v", err)
	}
	if _, err := c.ListMessages(ctx, groupID, bob.Token, 0); statusCode(err) != http.StatusNotFound {
		t.Fatalf("non-member read: %v", err)
	}
	post := schemas.Message{ChatID: groupID, SenderID: bob.User.ID, Content: "let me in"}
	if _, err := c.SendMessage(ctx, post, bob.Token); statusCode(err) != http.StatusNotFound {
		t.Fatalf("non-member send: %v", err)
	}
}

func TestChatEndpointRequiresOwnToken(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	alice := register(t, c, "+71110000001", "Alice", "")
	bob := register(t, c, "+71110000002", "Bob", "")

	if _, err := c.ListConversations(ctx, alice.User.ID, ""); statusCode(err) != http.StatusUnauthorized {
		t.Fatalf("missing token: %v", err)
	}
	if _, err := c.ListConversations(ctx, alice.User.ID, "forged"); statusCode(err) != http.StatusUnauthorized {
		t.Fatalf("unknown token: %v", err)
	}
	if _, err := c.ListConversations(ctx, alice.User.ID, bob.Token); statusCode(err) != http.StatusForbidden {
		t.Fatalf("foreign user id: %v", err)
	}
	if _, err := c.CreateGroup(ctx, "x", "", "", alice.User.ID, bob.Token); statusCode(err) != http.StatusForbidden {
		t.Fatalf("group for another user: %v", err)
	}
}

func TestAuthRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"*"}, AuthRate: 0.001, AuthBurst: 1})
	c := rilmas.NewClient(rilmas.Endpoints{Auth: srv.URL + "/auth", Chats: srv.URL + "/chats"})

	if _, err := c.Login(context.Background(), "+71110000001"); statusCode(err) != http.StatusNotFound {
		t.Fatalf("first request: %v", err)
	}
	_, err := c.Login(context.Background(), "+71110000001")
	if statusCode(err) != http.StatusTooManyRequests {
		t.Fatalf("second request: %v", err)
	}
	if !errors.Is(err, rilmas.ErrTransport) {
		t.Fatal("status errors must match ErrTransport")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"*"}, AuthRate: 1, AuthBurst: 1})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/chats", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-User-Token")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = res.Body.Close()

	if res.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("allow origin = %q", res.Header.Get("Access-Control-Allow-Origin"))
	}
	if res.Header.Get("Access-Control-Max-Age") != "86400" {
		t.Fatalf("max age = %q", res.Header.Get("Access-Control-Max-Age"))
	}
}
