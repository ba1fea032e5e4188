// Package rest exposes the travel journal over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/logging"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/dmitrijs2005/travelbook/internal/server/services"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, fullName, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type StoryService interface {
	Create(ctx context.Context, userID string, in services.StoryInput) (*models.Story, error)
	List(ctx context.Context, userID string) ([]*models.Story, error)
	Edit(ctx context.Context, userID, id string, in services.StoryInput) (*models.Story, error)
	Delete(ctx context.Context, userID, id string) error
	SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error)
	Search(ctx context.Context, userID, query string) ([]*models.Story, error)
	FilterByDate(ctx context.Context, userID string, start, end time.Time) ([]*models.Story, error)
}

type MediaService interface {
	Upload(ctx context.Context, originalName string, body io.Reader) (string, error)
	Delete(ctx context.Context, imageURL string) error
}

// Options holds the HTTP-level settings taken from the server config.
type Options struct {
	Address       string
	SecretKey     string
	MaxUploadSize int64
	CORSOrigin    string
	// Uploads serves uploaded images; Assets serves the static assets dir.
	Uploads http.Handler
	Assets  http.Handler
	// Limiter is optional.
	Limiter *Limiter
	// Ping reports storage health for /ping; nil means always healthy.
	Ping func(ctx context.Context) error
}

type Server struct {
	opts      Options
	users     UserService
	stories   StoryService
	media     MediaService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(opts Options, l logging.Logger, us UserService, ss StoryService, ms MediaService) *Server {
	return &Server{
		opts:      opts,
		users:     us,
		stories:   ss,
		media:     ms,
		logger:    l.With("module", "rest_server"),
		jwtSecret: []byte(opts.SecretKey),
	}
}

// Handler builds the routed and wrapped handler tree.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)

	r.HandleFunc("/create-account", s.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.Handle("/get-user", s.requireAuth(http.HandlerFunc(s.getUser))).Methods(http.MethodGet)

	r.HandleFunc("/image-upload", s.uploadImage).Methods(http.MethodPost)
	r.HandleFunc("/delete-image", s.deleteImage).Methods(http.MethodDelete)

	r.Handle("/add-travel-story", s.requireAuth(http.HandlerFunc(s.addStory))).Methods(http.MethodPost)
	r.Handle("/get-all-stories", s.requireAuth(http.HandlerFunc(s.listStories))).Methods(http.MethodGet)
	r.Handle("/edit-story/{id}", s.requireAuth(http.HandlerFunc(s.editStory))).Methods(http.MethodPut)
	r.Handle("/delete-story/{id}", s.requireAuth(http.HandlerFunc(s.deleteStory))).Methods(http.MethodDelete)
	r.Handle("/update-is-favourite/{id}", s.requireAuth(http.HandlerFunc(s.updateFavourite))).Methods(http.MethodPut)
	r.Handle("/search", s.requireAuth(http.HandlerFunc(s.searchStories))).Methods(http.MethodGet)
	r.Handle("/travel-stories/filter", s.requireAuth(http.HandlerFunc(s.filterStories))).Methods(http.MethodGet)

	if s.opts.Uploads != nil {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads", s.opts.Uploads)).Methods(http.MethodGet, http.MethodHead)
	}
	if s.opts.Assets != nil {
		r.PathPrefix("/assets/").Handler(http.StripPrefix("/assets", s.opts.Assets)).Methods(http.MethodGet, http.MethodHead)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, true, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, true, "method not allowed")
	})

	var h http.Handler = r
	if s.opts.Limiter != nil {
		h = s.opts.Limiter.Middleware(h)
	}
	h = s.cors(h)
	h = s.recoverer(h)
	h = &logHandler{log: s.logger, next: h}
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(r.Context()); err != nil {
			s.logger.Error(r.Context(), "storage ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "UNAVAILABLE"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
