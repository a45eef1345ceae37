package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/services"
)

// Pinger is the readiness dependency; *db.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	DB            Pinger
	UserService   services.UserService
	FolderService services.FolderService
	DeckService   services.DeckService
	CardService   services.CardService
	TagService    services.TagService
	StudyService  services.StudyService
	StatsService  services.StatsService
	ImportService services.ImportService

	MaxUploadBytes int64
	RequestTimeout time.Duration
	SecureCookies  bool
}

func errNoRoute(r *http.Request) error {
	return errors.NewNotFoundError("route", r.Method+" "+r.URL.Path)
}
