// Package router wires handlers and middleware onto the echo instance.  Each
// resource has exactly one mount under /api.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/handler"
	"github.com/odontolegal/forensic-api/internal/middleware"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Users    *handler.UserHandler
	Cases    *handler.CaseHandler
	Evidence *handler.EvidenceHandler
	Records  *handler.DentalRecordHandler
	Reports  *handler.ReportHandler
	Stats    *handler.StatsHandler
}

// Extras are optional middlewares; nil entries are skipped.
type Extras struct {
	LoginLimiter echo.MiddlewareFunc // applied to POST /api/user/login
	StatsCache   echo.MiddlewareFunc // applied to GET /api/bancoodonto/stats
}

func chain(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes mounts /healthz and every /api resource.  Reads are open to
// any authenticated role, writes to admin and perito, bulk deletes to admin.
func RegisterRoutes(e *echo.Echo, h Handlers, tokens middleware.TokenVerifier, x Extras) {
	e.GET("/healthz", handler.Health)

	auth := middleware.JWTAuth(tokens)
	read := middleware.RequireRole(middleware.AnyRole)
	write := middleware.RequireRole(middleware.Examiners)
	admin := middleware.RequireRole(middleware.AdminsOnly)

	api := e.Group("/api")

	// Registration is public; a token, when present, may grant a higher role.
	u := api.Group("/user")
	u.POST("", h.Users.Register, middleware.OptionalJWT(tokens))
	u.POST("/login", h.Users.Login, chain(x.LoginLimiter)...)
	u.GET("", h.Users.List, auth, read)
	u.GET("/me", h.Users.Me, auth, read)
	u.GET("/:id", h.Users.Get, auth, read)
	u.PUT("/:id", h.Users.Update, auth, read)
	u.DELETE("/:id", h.Users.Delete, auth, admin)
	u.DELETE("", h.Users.DeleteAll, auth, admin)

	c := api.Group("/caso", auth)
	c.POST("", h.Cases.Create, write)
	c.GET("", h.Cases.List, read)
	c.GET("/:id", h.Cases.Get, read)
	c.PUT("/:id", h.Cases.Update, write)
	c.DELETE("/:id", h.Cases.Delete, write)
	c.DELETE("", h.Cases.DeleteAll, admin)

	ev := api.Group("/evidencia", auth)
	ev.POST("", h.Evidence.Create, write)
	ev.GET("", h.Evidence.List, read)
	ev.GET("/:id", h.Evidence.Get, read)
	ev.PUT("/:id", h.Evidence.Update, write)
	ev.DELETE("/:id", h.Evidence.Delete, write)
	ev.DELETE("", h.Evidence.DeleteAll, admin)

	b := api.Group("/bancoodonto", auth)
	b.POST("", h.Records.Create, write)
	b.GET("", h.Records.List, read)
	b.GET("/stats", h.Stats.Dashboard, chain(read, x.StatsCache)...)
	b.GET("/:id", h.Records.Get, read)
	b.PUT("/:id", h.Records.Update, write)
	b.DELETE("/:id", h.Records.Delete, write)
	b.DELETE("", h.Records.DeleteAll, admin)

	l := api.Group("/laudo", auth)
	l.POST("", h.Reports.Create, write)
	l.GET("", h.Reports.List, read)
	l.GET("/:id", h.Reports.Get, read)
	l.GET("/:id/pdf", h.Reports.PDF, write)
	l.PUT("/:id", h.Reports.Update, write)
	l.DELETE("/:id", h.Reports.Delete, admin)
	l.DELETE("", h.Reports.DeleteAll, admin)
}
