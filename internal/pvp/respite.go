package pvp

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-summoners/internal/entity"
	"github.com/pixil98/go-summoners/internal/settings"
)

const (
	msgPKAgain   = "You are once again a Player Killer!"
	msgNowPKLite = "You are now a PK Lite player."
)

// Players iterates every player in the world.
type Players interface {
	ForEachPlayer(fn func(*entity.Entity))
}

// RespiteTicker restores player-killer status once a PvP death's respite has
// run out.
type RespiteTicker struct {
	settings *settings.Settings
	players  Players
	msg      Messenger
	now      func() time.Time
	last     time.Time
}

type RespiteOpt func(*RespiteTicker)

// WithRespiteClock replaces time.Now for measuring elapsed time.
func WithRespiteClock(now func() time.Time) RespiteOpt {
	return func(r *RespiteTicker) {
		r.now = now
	}
}

func NewRespiteTicker(s *settings.Settings, players Players, msg Messenger, opts ...RespiteOpt) *RespiteTicker {
	r := &RespiteTicker{
		settings: s,
		players:  players,
		msg:      msg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RespiteTicker) Tick(ctx context.Context) error {
	now := r.now()
	var elapsed time.Duration
	if !r.last.IsZero() {
		elapsed = now.Sub(r.last)
	}
	r.last = now

	r.players.ForEachPlayer(func(e *entity.Entity) {
		r.Advance(ctx, e, elapsed)
	})
	return nil
}

// Advance moves e's respite timer forward by elapsed and restores its PK
// status when the timer runs out.
func (r *RespiteTicker) Advance(ctx context.Context, e *entity.Entity, elapsed time.Duration) {
	p := e.Player
	if p == nil || p.RespiteElapsed == nil {
		return
	}
	if r.settings.SafeTrainingAcademy && p.RecallsDisabled {
		return
	}

	if p.PKLevel == entity.LevelNPK && !r.settings.PKServer && !r.settings.PKLServer {
		p.RespiteElapsed = nil
		return
	}

	*p.RespiteElapsed += elapsed
	if *p.RespiteElapsed < r.settings.RespiteTimer() {
		return
	}
	p.RespiteElapsed = nil

	level := p.PKLevel
	switch {
	case r.settings.PKServer:
		level = entity.LevelPK
	case r.settings.PKLServer:
		level = entity.LevelPKLite
	}

	var msg string
	switch level {
	case entity.LevelPK:
		e.PKStatus = entity.PK
		msg = msgPKAgain
	case entity.LevelPKLite:
		e.PKStatus = entity.PKLite
		msg = msgNowPKLite
	default:
		return
	}

	slog.InfoContext(ctx, "pk respite expired", "player", e.ID, "status", e.PKStatus)
	if err := r.msg.SendToPlayer(e.ID, msg); err != nil {
		slog.WarnContext(ctx, "sending respite message", "player", e.ID, "error", err)
	}
}
