package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lucasmercado101/mecamatic/internal/datasource"
	"github.com/Lucasmercado101/mecamatic/pkg/config"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson"
	"github.com/Lucasmercado101/mecamatic/pkg/lesson/store"
	"github.com/Lucasmercado101/mecamatic/pkg/testutil"
)

func TestParseFlags(t *testing.T) {
	o, _, err := parseFlags([]string{"--serve", "--lessons", "/tmp/l", "--profile", "lucas", "--pack", "out.db"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !o.serve || o.lessonsDir != "/tmp/l" || o.profile != "lucas" || o.packOut != "out.db" {
		t.Errorf("unexpected options %+v", o)
	}

	if _, _, err := parseFlags([]string{"--bogus"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "lessons:\n  dir: /from/file\nprofiles:\n  dir: /from/file/profiles\nui:\n  default_profile: ana\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{config.EnvLessonsDir: "/from/env"}
	getenv := func(k string) string { return env[k] }

	cfg, err := resolveConfig(options{configPath: cfgPath}, getenv)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Lessons.Dir != "/from/env" {
		t.Errorf("env should override file, got %q", cfg.Lessons.Dir)
	}
	if cfg.Profiles.Dir != "/from/file/profiles" {
		t.Errorf("file value lost, got %q", cfg.Profiles.Dir)
	}
	if cfg.UI.DefaultProfile != "ana" {
		t.Errorf("default profile = %q", cfg.UI.DefaultProfile)
	}

	cfg, err = resolveConfig(options{configPath: cfgPath, lessonsDir: "/from/flag", profile: "lucas"}, getenv)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Lessons.Dir != "/from/flag" {
		t.Errorf("flag should override env, got %q", cfg.Lessons.Dir)
	}
	if cfg.UI.DefaultProfile != "lucas" {
		t.Errorf("--profile should win, got %q", cfg.UI.DefaultProfile)
	}
}

func TestResolveConfig_BadFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("lessons:\n  source: ftp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(options{configPath: cfgPath}, func(string) string { return "" }); err == nil {
		t.Error("expected error for unknown lessons.source")
	}
}

func TestPack(t *testing.T) {
	root := testutil.TempLessonTree(t, testutil.GeneratorConfig{Bounds: lesson.Bounds{MaxLesson: 2, MaxExercise: 3}})
	out := filepath.Join(t.TempDir(), "bundle", "lessons.db")

	var buf bytes.Buffer
	if err := pack(context.Background(), root, out, &buf); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !strings.Contains(buf.String(), "Packed 18 exercises") {
		t.Errorf("output = %q", buf.String())
	}

	bundle, err := datasource.OpenSQLite(out)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer bundle.Close()

	want, err := store.NewDirStore(root).Lookup(context.Background(), lesson.At(lesson.Practice, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	got, err := bundle.Lookup(context.Background(), lesson.At(lesson.Practice, 2, 3))
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != want {
		t.Errorf("bundle content %+v, want %+v", got, want)
	}
}

func TestPack_MissingFolder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lessons.db")
	if err := pack(context.Background(), filepath.Join(t.TempDir(), "nope"), out, io.Discard); err == nil {
		t.Error("expected error for a missing lessons folder")
	}
}
