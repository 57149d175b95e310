package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, dir string, m any) {
	t.Helper()
	path := filepath.Join(root, dir)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}

	var data []byte
	switch v := m.(type) {
	case string:
		data = []byte(v)
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(path, "plugin.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "notify", Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "desktop notifications",
		Executable:  "notify",
		Events:      []Event{EventGoal, EventMatchFinished},
	})
	writeManifest(t, root, "log", Manifest{
		Name:       "scorelog",
		Executable: "scorelog",
		Events:     []Event{EventMatchStarted, EventMatchFinished},
	})

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := m.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "notify" || plugins[1].Manifest.Name != "scorelog" {
		t.Errorf("List() order = %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}

	p, err := m.Get("scorelog")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Path != filepath.Join(root, "log") {
		t.Errorf("Path = %q", p.Path)
	}
	if p.Executable != filepath.Join(root, "log", "scorelog") {
		t.Errorf("Executable = %q", p.Executable)
	}
}

func TestManager_Subscribers(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a", Manifest{Name: "a", Executable: "a", Events: []Event{EventGoal}})
	writeManifest(t, root, "b", Manifest{Name: "b", Executable: "b", Events: []Event{EventGoal, EventMatchFinished}})
	writeManifest(t, root, "c", Manifest{Name: "c", Executable: "c"})

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		event Event
		want  []string
	}{
		{EventGoal, []string{"a", "b"}},
		{EventMatchFinished, []string{"b"}},
		{EventMatchStarted, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			subs := m.Subscribers(tt.event)
			if len(subs) != len(tt.want) {
				t.Fatalf("Subscribers(%s) = %d plugins, want %d", tt.event, len(subs), len(tt.want))
			}
			for i, name := range tt.want {
				if subs[i].Manifest.Name != name {
					t.Errorf("subscriber %d = %s, want %s", i, subs[i].Manifest.Name, name)
				}
			}
		})
	}
}

func TestManager_Discover_SkipsBrokenPlugins(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "bad-json", "{not json")
	writeManifest(t, root, "no-exe", Manifest{Name: "no-exe"})
	writeManifest(t, root, "bad-event", Manifest{Name: "bad-event", Executable: "x", Events: []Event{"goal.own"}})
	writeManifest(t, root, "escape", Manifest{Name: "escape", Executable: "../../bin/sh"})
	writeManifest(t, root, "good", Manifest{Name: "good", Executable: "good"})
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := m.List()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "good" {
		t.Errorf("discovered %d plugins, want only 'good'", len(plugins))
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))
	if err := m.Discover(); err != nil {
		t.Errorf("Discover() on a missing dir = %v, want nil", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a", Manifest{Name: "a", Executable: "a"})

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(filepath.Join(root, "a")); err != nil {
		t.Fatal(err)
	}
	if err := m.Discover(); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Get("a"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get() after removal = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	if got := NewManager("/x/plugins").PluginDir(); got != "/x/plugins" {
		t.Errorf("PluginDir() = %q", got)
	}
}
