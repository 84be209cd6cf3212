package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/kotoba/internal/auth"
	"github.com/abhisek/kotoba/internal/catalog"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/home"
	"github.com/abhisek/kotoba/internal/screens/login"
	"github.com/abhisek/kotoba/internal/screens/play"
	"github.com/abhisek/kotoba/internal/screens/welcome"
)

func testServices(t *testing.T, signedIn bool) screen.Services {
	t.Helper()
	a := auth.NewService(auth.NewMemoryUsers(), auth.NewMemorySessions(), auth.Options{HashCost: bcrypt.MinCost})
	if err := a.SeedDemo(context.Background()); err != nil {
		t.Fatal(err)
	}
	if signedIn {
		if _, err := a.Login(context.Background(), auth.DemoEmail, auth.DemoPassword); err != nil {
			t.Fatal(err)
		}
	}
	bank, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	clock := quiz.ClockFunc(time.Now)
	return screen.Services{
		Auth:     a,
		Catalog:  bank,
		Engine:   quiz.NewEngine(clock, nil),
		Tracker:  report.NewTracker(report.NewMemoryStore(), clock, nil),
		Defaults: quiz.DefaultConfig(),
	}
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsWithSplash(t *testing.T) {
	m := newAppModel(testServices(t, false), Options{})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("expected welcome screen, got %T", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("splash should start ticking")
	}
}

func TestSkipSplashChoosesFirstScreen(t *testing.T) {
	m := newAppModel(testServices(t, false), Options{SkipSplash: true})
	if _, ok := m.router.Active().(*login.LoginScreen); !ok {
		t.Errorf("signed out user should see login, got %T", m.router.Active())
	}

	m = newAppModel(testServices(t, true), Options{SkipSplash: true, UpdateVersion: "v1.2.0"})
	h, ok := m.router.Active().(*home.HomeScreen)
	if !ok {
		t.Fatalf("remembered user should see the dashboard, got %T", m.router.Active())
	}
	if h.UpdateVersion != "v1.2.0" {
		t.Error("update note should reach the dashboard")
	}
	if m.user == nil || m.user.Email != auth.DemoEmail {
		t.Error("header should know the remembered user")
	}
}

func TestUserChangedUpdatesHeader(t *testing.T) {
	m := newAppModel(testServices(t, false), Options{SkipSplash: true})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(m, screen.UserChangedMsg{User: &auth.User{Name: "Aiko"}, Streak: 4})

	if m.user == nil || m.user.Name != "Aiko" || m.streak != 4 {
		t.Errorf("header state = %v, %d", m.user, m.streak)
	}

	m, _ = update(m, screen.UserChangedMsg{})
	if m.user != nil || m.streak != 0 {
		t.Error("sign out should clear the header")
	}
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	svc := testServices(t, true)
	m := newAppModel(svc, Options{SkipSplash: true})
	u, _ := svc.Auth.Current(context.Background())

	m.router.Push(play.NewSetup(svc, u))
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should pop the setup screen")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}

	qs, _ := svc.Catalog.Questions(context.Background())
	sess, err := svc.Engine.Start(qs, quiz.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	q := play.NewQuiz(svc, u, sess)
	m.router.Replace(q)
	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Errorf("quiz handles esc itself, got command %T", cmd())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testServices(t, false), Options{SkipSplash: true})
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
