// Package settings holds the server policy document read by the summoners mod.
package settings

import (
	"fmt"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
)

const (
	DefaultPKRespiteTimer   = "300s"
	DefaultDeathAnimation   = "3s"
	DefaultInitialClampDist = 112.5

	// DefaultBroadcastTemplate renders the global PK death message. The death
	// tag is appended after rendering.
	DefaultBroadcastTemplate = `{{ .Killer }} has defeated {{ .Victim }}!{{ with .Coords }} The kill occurred at {{ . }}{{ end }}`
)

// Settings is the policy document. Durations are strings parsed with
// time.ParseDuration.
type Settings struct {
	IgnoreSummonerMasteries bool `json:"ignore_summoner_masteries"`
	PetStowReplace          bool `json:"pet_stow_replace"`

	PKServer            bool   `json:"pk_server"`
	PKLServer           bool   `json:"pkl_server"`
	SafeTrainingAcademy bool   `json:"pk_server_safe_training_academy"`
	PKRespiteTimer      string `json:"pk_respite_timer"`

	InitialClamp     bool    `json:"initial_clamp"`
	InitialClampDist float64 `json:"initial_clamp_dist"`

	DeathAnimation    string `json:"death_animation"`
	BroadcastTemplate string `json:"broadcast_template"`
}

// Defaults returns the settings written when no document exists yet.
func Defaults() *Settings {
	return &Settings{
		PKRespiteTimer:    DefaultPKRespiteTimer,
		InitialClamp:      true,
		InitialClampDist:  DefaultInitialClampDist,
		DeathAnimation:    DefaultDeathAnimation,
		BroadcastTemplate: DefaultBroadcastTemplate,
	}
}

func (s *Settings) Validate() error {
	el := errors.NewErrorList()

	if d, err := time.ParseDuration(s.PKRespiteTimer); err != nil {
		el.Add(fmt.Errorf("parsing pk_respite_timer: %w", err))
	} else if d < 0 {
		el.Add(fmt.Errorf("pk_respite_timer must not be negative"))
	}

	if d, err := time.ParseDuration(s.DeathAnimation); err != nil {
		el.Add(fmt.Errorf("parsing death_animation: %w", err))
	} else if d < 0 {
		el.Add(fmt.Errorf("death_animation must not be negative"))
	}

	if s.InitialClampDist < 0 {
		el.Add(fmt.Errorf("initial_clamp_dist must not be negative"))
	}

	if s.PKServer && s.PKLServer {
		el.Add(fmt.Errorf("pk_server and pkl_server are mutually exclusive"))
	}

	if _, err := s.ParseBroadcastTemplate(); err != nil {
		el.Add(fmt.Errorf("parsing broadcast_template: %w", err))
	}

	return el.Err()
}

// RespiteTimer is how long a player stays non-PK after a PvP death.
func (s *Settings) RespiteTimer() time.Duration {
	d, _ := time.ParseDuration(s.PKRespiteTimer)
	return d
}

// DeathAnimationLength is how long the death animation plays.
func (s *Settings) DeathAnimationLength() time.Duration {
	d, _ := time.ParseDuration(s.DeathAnimation)
	return d
}

// InitialClampDistSq is the squared first-sight clamp distance.
func (s *Settings) InitialClampDistSq() float64 {
	return s.InitialClampDist * s.InitialClampDist
}

// ParseBroadcastTemplate compiles the broadcast template with sprig helpers.
// An empty template falls back to DefaultBroadcastTemplate.
func (s *Settings) ParseBroadcastTemplate() (*template.Template, error) {
	text := s.BroadcastTemplate
	if text == "" {
		text = DefaultBroadcastTemplate
	}
	return template.New("pk-broadcast").Funcs(sprig.TxtFuncMap()).Parse(text)
}
