package registry

import (
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

type stubGame struct {
	id string
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_stub_b", func() Game { return &stubGame{id: "zz_stub_b"} })
	Register("zz_stub_a", func() Game { return &stubGame{id: "zz_stub_a"} })

	if !Exists("zz_stub_a") {
		t.Fatal("registered game should exist")
	}
	if Exists("zz_missing") {
		t.Error("unknown game should not exist")
	}

	g, err := Create("zz_stub_b")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "zz_stub_b" {
		t.Errorf("ID() = %q, expected zz_stub_b", g.ID())
	}
	if Title("zz_stub_a") != "Stub zz_stub_a" {
		t.Errorf("Title() = %q", Title("zz_stub_a"))
	}
	if Title("zz_missing") != "zz_missing" {
		t.Error("Title() of an unknown game should fall back to the ID")
	}

	if _, err := Create("zz_missing"); err == nil {
		t.Error("Create() of an unknown game should fail")
	}
}

func TestListIsSorted(t *testing.T) {
	Register("zz_sorted_2", func() Game { return &stubGame{id: "zz_sorted_2"} })
	Register("zz_sorted_1", func() Game { return &stubGame{id: "zz_sorted_1"} })

	games := List()
	for i := 1; i < len(games); i++ {
		if games[i-1].ID >= games[i].ID {
			t.Errorf("List() not sorted at %d: %q >= %q", i, games[i-1].ID, games[i].ID)
		}
	}
	if Title("zz_sorted_1") != "Stub zz_sorted_1" {
		t.Errorf("Title() = %q", Title("zz_sorted_1"))
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
}
