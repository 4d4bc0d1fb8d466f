package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q", out)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("version --json is not JSON: %v (%q)", err, out)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestSpeciesListCmd(t *testing.T) {
	out, err := execute(t, "species", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"neon_tetra", "guppy", "corydoras", "dwarf_gourami"} {
		if !strings.Contains(out, id) {
			t.Errorf("species list is missing %s", id)
		}
	}
}

func TestSpeciesShowCmd(t *testing.T) {
	out, err := execute(t, "species", "show", "guppy")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(guppy)") {
		t.Errorf("show output = %q", out)
	}

	_, err = execute(t, "species", "show", "neon_tetr")
	if !errors.Is(err, species.ErrUnknownSpecies) {
		t.Fatalf("err = %v, want ErrUnknownSpecies", err)
	}
	if !strings.Contains(err.Error(), `did you mean "neon_tetra"`) {
		t.Errorf("err = %v, want a suggestion", err)
	}
}

func TestCompatCmd(t *testing.T) {
	out, err := execute(t, "compat", "neon_tetra", "guppy", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Score     float64 `json:"score"`
		Hostility float64 `json:"hostility"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("compat --json: %v (%q)", err, out)
	}
	if got.Score < 0 || got.Score > 1 || got.Hostility < 0 || got.Hostility > 1 {
		t.Errorf("compat = %+v, want values in [0,1]", got)
	}

	if _, err := execute(t, "compat", "neon_tetra", "gupy"); !errors.Is(err, species.ErrUnknownSpecies) {
		t.Errorf("err = %v, want ErrUnknownSpecies", err)
	}
}

func TestRunCmd_MaxTicks(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--max-ticks", "30", "--output-dir", dir, "--stats-window", "0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "max ticks reached") {
		t.Errorf("run output missing completion log: %q", out)
	}
}

func TestTuneCmd_RequiresOutput(t *testing.T) {
	if _, err := execute(t, "tune"); err == nil {
		t.Error("tune without --output should fail")
	}
	if _, err := execute(t, "tune", "--output", t.TempDir(), "--method", "simplex"); err == nil {
		t.Error("tune with an unknown method should fail")
	}
}

func TestCompatCmd_ListsRules(t *testing.T) {
	out, err := execute(t, "compat", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Rules []struct {
			A     string  `json:"a"`
			B     string  `json:"b"`
			Score float64 `json:"score"`
		} `json:"rules"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("compat --json: %v (%q)", err, out)
	}
	want := len(species.DefaultCompatibilityRules())
	if got.Count != want || len(got.Rules) != want {
		t.Errorf("rules = %d (count %d), want %d", len(got.Rules), got.Count, want)
	}
	for _, r := range got.Rules {
		if r.A > r.B {
			t.Errorf("rule %s/%s is not in canonical order", r.A, r.B)
		}
	}

	if _, err := execute(t, "compat", "neon_tetra"); err == nil {
		t.Error("compat with a single id should fail")
	}
}

func TestRunCmd_ExplicitZeroSeed(t *testing.T) {
	out, err := execute(t, "run", "--seed", "0", "--max-ticks", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"seed":0,`) {
		t.Errorf("--seed 0 was not honoured: %q", out)
	}

	out, err = execute(t, "run", "--max-ticks", "1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"seed":`+strconv.FormatUint(uint64(systems.DefaultSeed), 10)) {
		t.Errorf("run without --seed should use the config seed: %q", out)
	}
}

// saveTestSnapshot writes a snapshot taken in tank and returns its path.
func saveTestSnapshot(t *testing.T, tank components.TankConfig) string {
	t.Helper()
	state := systems.CreateDefaultEcosystemState(9)
	path, err := telemetry.SaveSnapshot(telemetry.NewSnapshot(9, tank, state, nil), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCmd_ResumeUsesSnapshotTank(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tank.BaseCapacity = 5
	cfg.Tank.OxygenCapacity = 3
	path := saveTestSnapshot(t, cfg.Tank)

	out := filepath.Join(t.TempDir(), "out")
	logs, err := execute(t, "run", "--resume", path, "--max-ticks", "10", "--output-dir", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, `"seed":9,`) {
		t.Errorf("resumed run should keep the snapshot seed: %q", logs)
	}

	written, err := config.Load(filepath.Join(out, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if written.Tank.BaseCapacity != 5 || written.Tank.OxygenCapacity != 3 {
		t.Errorf("resumed tank = %+v, want the snapshot's tank", written.Tank)
	}
}

func TestRunCmd_ResumeRejectsBrokenTank(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tank.BaseCapacity = 0
	path := saveTestSnapshot(t, cfg.Tank)

	if _, err := execute(t, "run", "--resume", path, "--max-ticks", "10"); err == nil {
		t.Error("resuming a snapshot with an invalid tank should fail")
	}
}
