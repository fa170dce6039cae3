package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nahidkabir/shongi/internal/config"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/internal/repository"
	"github.com/nahidkabir/shongi/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own named database so parallel tests do not share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.OTPCode{},
		&model.Connection{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Message{},
		&model.Post{},
		&model.PostLike{},
		&model.Comment{},
		&model.Report{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// recordingNotifier captures realtime events so tests can assert on fan-out
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uuid.UUID
	Event  model.WSEvent
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event model.WSEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Event: event})
}

func (n *recordingNotifier) eventsFor(userID uuid.UUID) []model.WSEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.WSEvent
	for _, e := range n.events {
		if e.UserID == userID {
			out = append(out, e.Event)
		}
	}
	return out
}

// testEnv wires every service against one test database
type testEnv struct {
	db       *gorm.DB
	notifier *recordingNotifier

	userRepo   *repository.UserRepository
	connRepo   *repository.ConnectionRepository
	otpRepo    *repository.OTPRepository
	convRepo   *repository.ConversationRepository
	msgRepo    *repository.MessageRepository
	postRepo   *repository.PostRepository
	reportRepo *repository.ReportRepository

	auth      *AuthService
	chat      *ChatService
	call      *CallService
	community *CommunityService
	match     *MatchService
	admin     *AdminService
}

const (
	testAdminEmail    = "admin@shongi.test"
	testAdminPassword = "admin-secret-123"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:         db,
		notifier:   &recordingNotifier{},
		userRepo:   repository.NewUserRepository(db),
		connRepo:   repository.NewConnectionRepository(db),
		otpRepo:    repository.NewOTPRepository(db),
		convRepo:   repository.NewConversationRepository(db),
		msgRepo:    repository.NewMessageRepository(db),
		postRepo:   repository.NewPostRepository(db),
		reportRepo: repository.NewReportRepository(db),
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	adminCfg := config.AdminConfig{
		Email:    testAdminEmail,
		Password: testAdminPassword,
		Name:     "Admin",
	}

	env.auth = NewAuthService(env.userRepo, env.connRepo, env.otpRepo, jwtManager, nil, nil, env.notifier, adminCfg)
	env.auth.upgradeDelay = 0
	env.auth.otpCooldown = 0

	env.chat = NewChatService(env.convRepo, env.msgRepo, env.userRepo, env.connRepo, env.notifier, nil, false)
	env.call = NewCallService(env.convRepo, env.msgRepo, env.userRepo, env.notifier, false)
	env.community = NewCommunityService(env.postRepo, env.userRepo)
	env.match = NewMatchService(env.userRepo, env.connRepo)
	env.admin = NewAdminService(env.userRepo, env.connRepo, env.convRepo, env.postRepo, env.reportRepo)

	return env
}

// createUser inserts a user directly, bypassing the register flow
func (e *testEnv) createUser(t *testing.T, email string, mutate ...func(*model.User)) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		FullName: "Test User",
		Email:    email,
		Password: string(hashed),
		Age:      25,
		Gender:   "female",
		Religion: "islam",
		Role:     model.RoleUser,
		Plan:     model.PlanBasic,
		Language: "bn",
		Privacy: model.Privacy{
			ShowPhoto:       true,
			IsProfilePublic: true,
		},
	}
	for _, m := range mutate {
		m(user)
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// connect creates an accepted edge so the pair can chat and call
func (e *testEnv) connect(t *testing.T, a, b uuid.UUID) {
	t.Helper()

	conn := &model.Connection{
		RequesterID: a,
		AddresseeID: b,
		Status:      model.ConnectionAccepted,
	}
	if err := e.connRepo.Create(conn); err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
}

// openConversation connects the pair and opens their direct thread
func (e *testEnv) openConversation(t *testing.T, a, b uuid.UUID) uuid.UUID {
	t.Helper()

	e.connect(t, a, b)
	resp, err := e.chat.GetOrCreateDirectConversation(a, b)
	if err != nil {
		t.Fatalf("failed to open conversation: %v", err)
	}
	return resp.Conversation.ID
}
