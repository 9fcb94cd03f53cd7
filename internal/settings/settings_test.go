package settings

import (
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestSettings_Validate(t *testing.T) {
	tests := map[string]struct {
		modify func(*Settings)
		expErr string
	}{
		"defaults": {
			modify: func(*Settings) {},
		},
		"bad respite": {
			modify: func(s *Settings) { s.PKRespiteTimer = "soon" },
			expErr: "pk_respite_timer",
		},
		"negative animation": {
			modify: func(s *Settings) { s.DeathAnimation = "-1s" },
			expErr: "death_animation must not be negative",
		},
		"negative clamp": {
			modify: func(s *Settings) { s.InitialClampDist = -1 },
			expErr: "initial_clamp_dist",
		},
		"both server modes": {
			modify: func(s *Settings) { s.PKServer, s.PKLServer = true, true },
			expErr: "mutually exclusive",
		},
		"broken template": {
			modify: func(s *Settings) { s.BroadcastTemplate = "{{ .Killer " },
			expErr: "broadcast_template",
		},
		"empty template falls back": {
			modify: func(s *Settings) { s.BroadcastTemplate = "" },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Defaults()
			tt.modify(s)

			err := s.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expErr) {
				t.Fatalf("expected error containing %q, got %v", tt.expErr, err)
			}
		})
	}
}

func TestSettings_Accessors(t *testing.T) {
	s := Defaults()

	testutil.AssertEqual(t, "respite", s.RespiteTimer(), 300*time.Second)
	testutil.AssertEqual(t, "animation", s.DeathAnimationLength(), 3*time.Second)
	testutil.AssertEqual(t, "clamp sq", s.InitialClampDistSq(), 112.5*112.5)
}

func TestSettings_ParseBroadcastTemplate(t *testing.T) {
	s := Defaults()
	s.BroadcastTemplate = `{{ .Killer | upper }} slew {{ .Victim }}`

	tmpl, err := s.ParseBroadcastTemplate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, map[string]string{"Killer": "Alice", "Victim": "Bob"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "rendered", sb.String(), "ALICE slew Bob")
}
