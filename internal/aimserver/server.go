// Package aimserver serves turret solutions over a websocket, so an
// editor or game host can stream target moves and get joint rotations
// back.
//
// Each text message from the client is a JSON encoded scenario shot.
// The server answers every message with a Reply. In design-time mode
// a shot naming an object is followed by a Notice asking the client
// to rebuild that object.
package aimserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"zappem.net/pub/kinematics/turret"
	"zappem.net/pub/kinematics/turret/internal/config"
	"zappem.net/pub/kinematics/turret/internal/scenario"
)

// Reply answers one shot.
type Reply struct {
	ID    string  `json:"id"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
	Miss  float64 `json:"miss"`
	Error string  `json:"error,omitempty"`
}

// Notice asks the client to rebuild the named object.
type Notice struct {
	Refresh string `json:"refresh"`
}

// Server is the aim service.
type Server struct {
	cfg      config.Server
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New returns a server for cfg. A nil logger discards logs.
func New(cfg config.Server, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the HTTP handler serving the /aim endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/aim", s.handleAim)
	return mux
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
		}
	}()

	s.log.Info("aim service listening", zap.String("addr", s.cfg.Addr), zap.Bool("design_time", s.cfg.DesignTime))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// connHost relays rebuild requests to the websocket client.
type connHost struct {
	design bool
	conn   *websocket.Conn
	err    error
}

func (h *connHost) DesignTime() bool { return h.design }

func (h *connHost) Rebuild(obj any) {
	name, _ := obj.(string)
	h.err = h.conn.WriteJSON(Notice{Refresh: name})
}

func (s *Server) handleAim(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}
	defer conn.Close()
	if s.cfg.ReadLimit > 0 {
		conn.SetReadLimit(s.cfg.ReadLimit)
	}

	log := s.log.With(zap.String("remote", conn.RemoteAddr().String()))
	log.Debug("connected")
	host := &connHost{design: s.cfg.DesignTime, conn: conn}

	for seq := 0; ; seq++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read", zap.Error(err))
			}
			return
		}

		reply, obj := s.solve(seq, data)
		if reply.Error != "" {
			log.Info("rejected shot", zap.String("id", reply.ID), zap.String("error", reply.Error))
		} else {
			log.Debug("solved", zap.String("id", reply.ID), zap.Float64("pitch", reply.Pitch), zap.Float64("yaw", reply.Yaw))
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("write", zap.Error(err))
			return
		}

		turret.Refresh(host, obj)
		if host.err != nil {
			log.Warn("refresh", zap.Error(host.err))
			return
		}
	}
}

// solve answers message seq of a connection. The returned object is
// nil unless the shot was solved and names one.
func (s *Server) solve(seq int, data []byte) (Reply, any) {
	var shot scenario.Shot
	if err := json.Unmarshal(data, &shot); err != nil {
		return Reply{Error: err.Error()}, nil
	}
	shot.Normalize(seq)

	req, err := shot.Request()
	if err != nil {
		return Reply{ID: shot.ID, Error: err.Error()}, nil
	}
	r, miss := req.Solve()
	reply := Reply{
		ID:    shot.ID,
		Pitch: r.Pitch,
		Yaw:   r.Yaw,
		Roll:  r.Roll,
		Miss:  miss,
	}
	if shot.Object == "" {
		return reply, nil
	}
	return reply, shot.Object
}
