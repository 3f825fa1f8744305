package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/unl-extension/metas/backend/internal/queue"
	"github.com/unl-extension/metas/backend/internal/storage"
	"github.com/unl-extension/metas/backend/pkg/catalog"
	"github.com/unl-extension/metas/backend/pkg/metas"
	"github.com/unl-extension/metas/backend/pkg/store"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
	// Token authenticates the user against the metas API.
	Token string
}

type App struct {
	DBConn  *pgxpool.Pool
	Queue   queue.Channel
	Key     jwt.Keyfunc
	S3      *s3.Client
	// Objects reads stored exports, normally the S3 client.
	Objects storage.ObjectGetter
	Bucket  string
	Metas   *metas.Client
	Catalog *catalog.Service
	Exports store.ExportStore

	SummaryConcurrency int

	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
	// ServiceToken is used against the metas API for master key requests.
	ServiceToken string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// MetasFor returns a metas client authenticated as the current user.
func (c *AppContext) MetasFor() *metas.Client {
	if c.User == nil {
		return c.App.Metas
	}
	return c.App.Metas.WithToken(c.User.Token)
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
