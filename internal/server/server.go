package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/choreboard/choreboard/internal/handler"
	"github.com/choreboard/choreboard/internal/middleware"
	"github.com/choreboard/choreboard/internal/push"
	"github.com/choreboard/choreboard/internal/store"
	ws "github.com/choreboard/choreboard/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	householdH   *handler.HouseholdHandler
	taskH        *handler.TaskHandler
	categoryH    *handler.CategoryHandler
	memberH      *handler.MemberHandler
	rewardH      *handler.RewardHandler
	settingsH    *handler.SettingsHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	memberStore  *store.MemberStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	householdStore := store.NewHouseholdStore(db)
	memberStore := store.NewMemberStore(db)
	categoryStore := store.NewCategoryStore(db)
	taskStore := store.NewTaskStore(db)
	rewardStore := store.NewRewardStore(db)
	settingsStore := store.NewSettingsStore(db)
	pushStore := store.NewPushStore(db)

	var pushSvc *push.Service
	var notifier *push.Notifier
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, pushStore, logger)
	}

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, memberStore, logger.With("component", "auth")),
		householdH:   handler.NewHouseholdHandler(householdStore, memberStore, categoryStore, userStore, hub, logger.With("component", "household")),
		taskH:        handler.NewTaskHandler(taskStore, categoryStore, memberStore, hub, notifier, logger.With("component", "task")),
		categoryH:    handler.NewCategoryHandler(categoryStore, hub, logger.With("component", "category")),
		memberH:      handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		rewardH:      handler.NewRewardHandler(rewardStore, memberStore, hub, notifier, logger.With("component", "reward")),
		settingsH:    handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		pushH:        handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		sessionStore: sessionStore,
		userStore:    userStore,
		memberStore:  memberStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Authenticated but not household-scoped
	authedMux := http.NewServeMux()
	authedMux.HandleFunc("POST /api/logout", s.authH.Logout)
	authedMux.HandleFunc("GET /api/session", s.authH.Session)
	authedMux.HandleFunc("POST /api/households", s.householdH.Create)
	authedMux.HandleFunc("POST /api/households/join", s.householdH.Join)

	// Household-scoped routes
	householdMux := http.NewServeMux()
	s.registerHouseholdRoutes(householdMux)
	authedMux.Handle("/", middleware.RequireHousehold(householdMux))

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore, s.memberStore)
	outerMux.Handle("/", authMiddleware(authedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerHouseholdRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/household", s.householdH.Get)
	mux.Handle("PUT /api/household", adminOnly(s.householdH.Update))

	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.UpdateProfile)
	mux.HandleFunc("GET /api/leaderboard", s.memberH.Leaderboard)

	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.taskH.Complete)

	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.Handle("POST /api/rewards", adminOnly(s.rewardH.Create))
	mux.Handle("PUT /api/rewards/{id}", adminOnly(s.rewardH.Update))
	mux.Handle("DELETE /api/rewards/{id}", adminOnly(s.rewardH.Delete))
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)
	mux.HandleFunc("GET /api/redemptions", s.rewardH.Redemptions)

	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Update)

	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "ws_handler")))
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
