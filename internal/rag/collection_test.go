package rag

import (
	"strings"
	"testing"
)

func TestDeriveCollectionName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"unix path", "/home/user/project", "home-user-project"},
		{"windows path", `C:\Users\dev\docs`, "C-Users-dev-docs"},
		{"trailing separator", "/home/user/project/", "home-user-project"},
		{"root only", "/", "dir"},
		{"all punctuation", "///---___///", "dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveCollectionName(tt.path); got != tt.want {
				t.Errorf("DeriveCollectionName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDeriveCollectionName_Deterministic(t *testing.T) {
	path := "/var/data/corpus"
	if DeriveCollectionName(path) != DeriveCollectionName(path) {
		t.Error("same path produced different names")
	}
}

func TestDeriveCollectionName_BoundsAndBoundaries(t *testing.T) {
	paths := []string{
		"/" + strings.Repeat("a", 100),
		"/" + strings.Repeat("ab/", 40),
		strings.Repeat("-", 80),
		"/home/user/.hidden/.config",
	}

	for _, p := range paths {
		name := DeriveCollectionName(p)
		if name == "" {
			t.Errorf("%q: empty name", p)
			continue
		}
		if len(name) > maxCollectionNameLen {
			t.Errorf("%q: name %q exceeds %d bytes", p, name, maxCollectionNameLen)
		}
		if !isAlnum(name[0]) {
			t.Errorf("%q: name %q starts with non-alphanumeric", p, name)
		}
		if !isAlnum(name[len(name)-1]) {
			t.Errorf("%q: name %q ends with non-alphanumeric", p, name)
		}
	}
}
