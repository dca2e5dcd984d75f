package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseStringEmpty(t *testing.T) {
	o, err := ParseString("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !reflect.DeepEqual(o, Options{}) {
		t.Errorf("expected zero Options, got %+v", o)
	}
}

func TestParseString(t *testing.T) {
	doc := `
flush_threshold: 2048
default_charset: utf-8
extra_named_references:
  foo: bar
`
	o, err := ParseString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := Options{
		FlushThreshold:       2048,
		DefaultCharset:       "utf-8",
		ExtraNamedReferences: map[string]string{"foo": "bar"},
	}
	if !reflect.DeepEqual(o, want) {
		t.Errorf("got %+v, want %+v", o, want)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	o, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !reflect.DeepEqual(o, Options{}) {
		t.Errorf("expected zero Options, got %+v", o)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hvmllex.yml")
	if err := os.WriteFile(path, []byte("flush_threshold: 512\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %s", err)
	}
	o, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if o.FlushThreshold != 512 {
		t.Errorf("got flush threshold %d, want 512", o.FlushThreshold)
	}
}

func TestMerge(t *testing.T) {
	base := Options{FlushThreshold: 1024, DefaultCharset: "utf-8"}
	override := Options{DefaultCharset: "gbk", ExtraNamedReferences: map[string]string{"x": "y"}}

	got := Merge(base, override)
	want := Options{
		FlushThreshold:       1024,
		DefaultCharset:       "gbk",
		ExtraNamedReferences: map[string]string{"x": "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

type fakeSink struct {
	threshold int
	extra     map[string]string
	charset   string
}

func (f *fakeSink) SetFlushThreshold(n int)               { f.threshold = n }
func (f *fakeSink) SetExtraNamedReferences(m map[string]string) { f.extra = m }
func (f *fakeSink) SetDefaultCharset(c string)             { f.charset = c }

func TestSortedExtraReferenceNames(t *testing.T) {
	o := Options{ExtraNamedReferences: map[string]string{"zeta": "Z", "alpha": "A", "mid": "M"}}
	got := o.SortedExtraReferenceNames()
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyTo(t *testing.T) {
	o := Options{FlushThreshold: 99, DefaultCharset: "big5", ExtraNamedReferences: map[string]string{"a": "b"}}
	sink := &fakeSink{}
	o.ApplyTo(sink)
	if sink.threshold != 99 || sink.charset != "big5" || !reflect.DeepEqual(sink.extra, o.ExtraNamedReferences) {
		t.Errorf("ApplyTo did not propagate options: %+v", sink)
	}
}
