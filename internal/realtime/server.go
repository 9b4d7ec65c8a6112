package realtime

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/campushub/portal-backend/api/responses"
	pkgauth "github.com/campushub/portal-backend/pkg/auth"
	"github.com/campushub/portal-backend/pkg/auth/session"
	"github.com/campushub/portal-backend/pkg/config"
	pkgerrors "github.com/campushub/portal-backend/pkg/errors"
	"github.com/campushub/portal-backend/pkg/logger"
)

// Server upgrades authenticated HTTP requests into hub connections.
type Server struct {
	hub      *Hub
	jwtCfg   config.JWTConfig
	cfg      config.RealtimeConfig
	sessions session.Checker
	logg     *logger.Logger
	upgrader websocket.Upgrader
}

// NewServer wires the websocket endpoint.
func NewServer(hub *Hub, jwtCfg config.JWTConfig, cfg config.RealtimeConfig, sessions session.Checker, logg *logger.Logger) *Server {
	return &Server{
		hub:      hub,
		jwtCfg:   jwtCfg,
		cfg:      cfg,
		sessions: sessions,
		logg:     logg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}
}

// Handshake extracts the bearer credential from the upgrade request. Browsers
// cannot set headers on websocket dials, so a token query parameter is
// accepted as well.
func credentialFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw != "" {
		return raw
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// HandleWS authenticates the handshake, upgrades the socket, joins the
// identity and department rooms, and starts the pumps. A failed handshake is
// rejected before any room join occurs; the client must reconnect with a
// fresh credential.
func (s *Server) HandleWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := credentialFromRequest(r)
		if token == "" {
			responses.WriteError(ctx, s.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgauth.ParseAccessToken(s.jwtCfg, token)
		if err != nil {
			responses.WriteError(ctx, s.logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if s.sessions != nil {
			ok, err := s.sessions.HasSession(ctx, claims.ID)
			if err != nil {
				responses.WriteError(ctx, s.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if !ok {
				responses.WriteError(ctx, s.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}
		}

		ws, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			s.logg.Error(ctx, "websocket upgrade failed", err)
			return
		}

		identity := claims.Identity()
		conn := newConn(s.hub, ws, identity, s.cfg, s.logg)

		s.hub.Join(conn, UserRoom(identity.UserID))
		s.hub.Join(conn, DeptRoom(identity.Department))

		connCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id":    identity.UserID.String(),
			"actor_role": string(identity.Role),
			"department": identity.Department,
		})
		s.logg.Info(connCtx, "socket connected")

		go conn.writePump()
		go func() {
			conn.readPump(connCtx)
			s.logg.Info(connCtx, "socket disconnected")
		}()
	}
}
