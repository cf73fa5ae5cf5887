package dialogs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/services/rilmas"
	"github.com/gregriff/rilmas/internal/session"
)

// fakeAPI answers register and login with a canned response.
type fakeAPI struct {
	res *rilmas.AuthResponse
	err error

	mu       sync.Mutex
	calls    int
	nickname string
	invite   string
	phone    string
	block    chan struct{}
}

func (f *fakeAPI) Register(ctx context.Context, phone, nickname string, avatar schemas.Avatar, inviteCode string) (*rilmas.AuthResponse, error) {
	f.mu.Lock()
	f.calls++
	f.phone, f.nickname, f.invite = phone, nickname, inviteCode
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.res, f.err
}

func (f *fakeAPI) Login(ctx context.Context, phone string) (*rilmas.AuthResponse, error) {
	f.mu.Lock()
	f.calls++
	f.phone = phone
	f.mu.Unlock()
	return f.res, f.err
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.toml"))
}

func okResponse() *rilmas.AuthResponse {
	return &rilmas.AuthResponse{User: &schemas.User{ID: 7, Name: "X", Avatar: schemas.EmojiAvatar("🎮")}, Token: "abc"}
}

func TestRegistrationSteps(t *testing.T) {
	r := NewRegistration("", nil)
	if r.Step() != PhoneEntry {
		t.Fatalf("initial step = %v", r.Step())
	}

	for _, phone := range []string{"", "   "} {
		r.SetPhone(phone)
		if err := r.Continue(); !errors.Is(err, ErrPhoneRequired) {
			t.Fatalf("Continue with %q = %v", phone, err)
		}
		if r.Step() != PhoneEntry {
			t.Fatal("blank phone must not advance")
		}
	}

	r.SetPhone("+71234567890")
	if err := r.Continue(); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if r.Step() != ProfileSetup {
		t.Fatalf("step = %v, want ProfileSetup", r.Step())
	}
	if err := r.Continue(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Continue from ProfileSetup = %v", err)
	}

	r.Back()
	if r.Step() != PhoneEntry || r.Phone() != "+71234567890" {
		t.Fatalf("back: step=%v phone=%q", r.Step(), r.Phone())
	}
}

func TestRegistrationCompleteOnlyInProfileSetup(t *testing.T) {
	api := &fakeAPI{res: okResponse()}
	r := NewRegistration("", nil)
	r.SetPhone("+7")
	if r.CanComplete() {
		t.Fatal("complete must be disabled in PhoneEntry")
	}
	if err := r.Complete(context.Background(), api, newStore(t)); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v, want ErrWrongStep", err)
	}
	if api.calls != 0 {
		t.Fatal("no request may be issued from PhoneEntry")
	}
}

func TestRegistrationCompleteWritesSession(t *testing.T) {
	api := &fakeAPI{res: okResponse()}
	store := newStore(t)
	var completed *schemas.User
	r := NewRegistration(" INV12345 ", func(u schemas.User) { completed = &u })
	r.SetPhone(" +71234567890 ")
	_ = r.Continue()

	if err := r.Complete(context.Background(), api, store); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if api.nickname != schemas.DefaultNickname || api.invite != "INV12345" || api.phone != "+71234567890" {
		t.Fatalf("request = %+v", api)
	}
	got, ok := store.Get()
	if !ok || got.User.ID != 7 || got.Token != "abc" {
		t.Fatalf("session = %+v, %v", got, ok)
	}
	if completed == nil || completed.ID != 7 {
		t.Fatal("parent was not notified")
	}
	if r.Loading() {
		t.Fatal("loading must be reset")
	}
}

func TestRegistrationWithoutUserStaysInProfileSetup(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAPI
	}{
		{"missing user", &fakeAPI{res: &rilmas.AuthResponse{Token: "abc"}}},
		{"transport failure", &fakeAPI{err: &rilmas.StatusError{StatusCode: 400, Message: "Phone already registered"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			notified := false
			r := NewRegistration("", func(schemas.User) { notified = true })
			r.SetPhone("+7")
			r.SetNickname("Neo")
			_ = r.Continue()

			if err := r.Complete(context.Background(), tt.api, store); err == nil {
				t.Fatal("expected error")
			}
			if _, ok := store.Get(); ok {
				t.Fatal("session store must stay unchanged")
			}
			if notified || r.Step() != ProfileSetup || r.Loading() {
				t.Fatalf("notified=%v step=%v loading=%v", notified, r.Step(), r.Loading())
			}
		})
	}
}

func TestRegistrationRejectsDuplicateSubmit(t *testing.T) {
	api := &fakeAPI{res: okResponse(), block: make(chan struct{})}
	r := NewRegistration("", nil)
	r.SetPhone("+7")
	_ = r.Continue()
	store := newStore(t)

	done := make(chan error, 1)
	go func() { done <- r.Complete(context.Background(), api, store) }()

	// wait until the first submission holds the guard
	for !r.Loading() {
	}
	if err := r.Complete(context.Background(), api, store); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second submit = %v, want ErrInFlight", err)
	}
	if r.CanComplete() {
		t.Fatal("complete must be disabled while loading")
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if api.calls != 1 {
		t.Fatalf("register called %d times, want 1", api.calls)
	}
}

func TestStartRaisesFlagBeforeRequest(t *testing.T) {
	api := &fakeAPI{res: okResponse()}
	store := newStore(t)
	r := NewRegistration("", nil)
	r.SetPhone("+71234567890")
	_ = r.Continue()

	submit, err := r.Start(context.Background(), api, store)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Loading() || r.CanComplete() || api.calls != 0 {
		t.Fatalf("after Start: loading=%v canComplete=%v calls=%d", r.Loading(), r.CanComplete(), api.calls)
	}
	if _, err := r.Start(context.Background(), api, store); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second Start = %v, want ErrInFlight", err)
	}
	r.Back()
	if r.Step() != ProfileSetup {
		t.Fatal("back must be ignored while a submission is in flight")
	}

	if err := submit(); err != nil {
		t.Fatal(err)
	}
	if r.Loading() || api.calls != 1 {
		t.Fatalf("after submit: loading=%v calls=%d", r.Loading(), api.calls)
	}
	r.Back()
	if r.Step() != PhoneEntry {
		t.Fatal("back must work once the submission resolved")
	}
}

func TestLoginStart(t *testing.T) {
	api := &fakeAPI{err: &rilmas.StatusError{StatusCode: 404, Message: "User not found"}}
	var l Login

	submit, err := l.Start(context.Background(), "+71234567890", api, newStore(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Start(context.Background(), "+71234567890", api, newStore(t)); !errors.Is(err, ErrInFlight) {
		t.Fatalf("second Start = %v, want ErrInFlight", err)
	}
	if _, err := submit(); err == nil {
		t.Fatal("expected the status error")
	}
	if l.Loading() || api.calls != 1 {
		t.Fatalf("loading=%v calls=%d", l.Loading(), api.calls)
	}
}

func TestLoginScenario(t *testing.T) {
	store := newStore(t)
	var l Login

	user, err := l.Submit(context.Background(), "+71234567890", &fakeAPI{res: okResponse()}, store)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got, _ := store.Get()
	if user.ID != 7 || got.User.ID != 7 || got.Token != "abc" {
		t.Fatalf("user=%+v session=%+v", user, got)
	}

	other := newStore(t)
	_, err = l.Submit(context.Background(), "+71234567890", &fakeAPI{res: &rilmas.AuthResponse{}}, other)
	if !errors.Is(err, rilmas.ErrNoUser) {
		t.Fatalf("err = %v, want ErrNoUser", err)
	}
	if _, ok := other.Get(); ok {
		t.Fatal("response without user must leave the store unchanged")
	}

	if _, err := l.Submit(context.Background(), "  ", &fakeAPI{}, other); !errors.Is(err, ErrPhoneRequired) {
		t.Fatalf("blank phone = %v", err)
	}
}

func TestProfileEdit(t *testing.T) {
	var saved []schemas.Profile
	current := schemas.Profile{Nickname: "Shadow", Avatar: schemas.EmojiAvatar("🎮")}
	p := NewProfileEdit(current, func(pr schemas.Profile) { saved = append(saved, pr) })

	if p.Nickname() != "Shadow" || p.Avatar() != current.Avatar {
		t.Fatal("working copy must be seeded from the current profile")
	}

	if err := p.ChooseImage("/home/me/pic.png"); !errors.Is(err, schemas.ErrInvalidImage) {
		t.Fatalf("local path = %v, want ErrInvalidImage", err)
	}
	if p.Avatar() != current.Avatar {
		t.Fatal("a rejected image must leave the avatar unchanged")
	}
	if err := p.ChooseImage("data:image/png;base64,AAAA"); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Avatar().Emoji(); ok {
		t.Fatal("choosing an image must replace the emoji")
	}
	p.ChooseEmoji("🐉")
	if _, ok := p.Avatar().Image(); ok {
		t.Fatal("choosing an emoji must replace the image")
	}

	p.SetNickname("   ")
	if p.CanSave() {
		t.Fatal("blank nickname must disable save")
	}
	if _, err := p.Save(); !errors.Is(err, ErrNicknameRequired) || len(saved) != 0 || !p.Open() {
		t.Fatalf("save with blank nickname: err=%v saved=%v", err, saved)
	}

	p.SetNickname("Fury")
	got, err := p.Save()
	if err != nil {
		t.Fatal(err)
	}
	if got.Nickname != "Fury" || got.Avatar.String() != "🐉" || len(saved) != 1 || p.Open() {
		t.Fatalf("saved=%+v open=%v", saved, p.Open())
	}
}

func TestProfileEditCancel(t *testing.T) {
	called := false
	p := NewProfileEdit(schemas.Profile{Nickname: "a"}, func(schemas.Profile) { called = true })
	p.SetNickname("b")
	p.Cancel()
	if called || p.Open() {
		t.Fatal("cancel must close without emitting")
	}
	if _, err := p.Save(); err == nil {
		t.Fatal("save after close must fail")
	}
}

func TestGroupCreation(t *testing.T) {
	type created struct{ name, desc, icon string }
	var got []created
	g := NewGroupCreation(func(n, d, i string) { got = append(got, created{n, d, i}) })
	g.Show()

	if g.Icon() != schemas.DefaultGroupIcon {
		t.Fatalf("default icon = %q", g.Icon())
	}
	g.SetName("  ")
	if g.CanCreate() || !errors.Is(g.Create(), ErrNameRequired) || len(got) != 0 {
		t.Fatal("blank name must block create")
	}

	g.SetName("Team Dragons")
	g.SetDescription("evening raids")
	g.ChooseIcon("🏆")
	if err := g.Create(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != (created{"Team Dragons", "evening raids", "🏆"}) {
		t.Fatalf("emitted %+v", got)
	}
	if g.Open() || g.Name() != "" || g.Description() != "" || g.Icon() != schemas.DefaultGroupIcon {
		t.Fatal("create must reset and close")
	}
}
