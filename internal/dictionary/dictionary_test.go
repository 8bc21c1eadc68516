package dictionary

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
)

func TestNew_Normalizes(t *testing.T) {
	d := New(map[string]string{
		"  Boat ": "A small open vessel.",
		"CRANE":   "A large wading bird.",
		"":        "blank",
		"   ":     "blank",
	})
	if d.Len() != 2 {
		t.Fatalf("Len %d, want 2", d.Len())
	}
	if !d.Contains("boat") || !d.Contains("crane") {
		t.Error("normalized keys missing")
	}
	if d.Contains("Boat") {
		t.Error("Contains should only match lowercase keys")
	}
	if def, ok := d.Definition("CRANE"); !ok || def != "A large wading bird." {
		t.Errorf("Definition(CRANE) = %q, %v", def, ok)
	}
}

func TestNew_FoldCollisionPrefersLiteralKey(t *testing.T) {
	d := New(map[string]string{
		"straße":  "folded",
		"Strasse": "literal",
	})
	if d.Len() != 1 {
		t.Fatalf("Len %d, want 1", d.Len())
	}
	if def, _ := d.Definition("strasse"); def != "literal" {
		t.Errorf("Definition(strasse) = %q, want literal", def)
	}
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	if d.Contains("boat") {
		t.Error("nil Contains should be false")
	}
	if d.Len() != 0 {
		t.Error("nil Len should be 0")
	}
	if _, err := d.Pick(5, func(int) int { return 0 }); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("nil Pick err %v, want ErrEmptyDictionary", err)
	}
}

func TestWords(t *testing.T) {
	d := New(map[string]string{"crane": "x", "boat": "y", "apple": "z"})
	if got, want := d.Words(5), []string{"apple", "crane"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Words(5) %v, want %v", got, want)
	}
	if got, want := d.Words(0), []string{"apple", "boat", "crane"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Words(0) %v, want %v", got, want)
	}
	w := d.Words(5)
	w[0] = "zzzzz"
	if d.Words(5)[0] != "apple" {
		t.Error("Words returned shared storage")
	}
}

func TestClean(t *testing.T) {
	d := New(map[string]string{
		"boat":      "a",
		"crane":     "b",
		"cranes":    "c",
		"x-ray":     "d",
		"abandoned": "e",
		"naïve":     "f",
		"x ray":     "g",
		"o'er":      "h",
		"café":      "i",
	})
	c := d.Clean(5)
	if got, want := c.Words(0), []string{"boat", "crane"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Clean(5) words %v, want %v", got, want)
	}
	for _, w := range c.Words(5) {
		if _, err := game.New(w); err != nil {
			t.Errorf("cleaned target %q rejected by game.New: %v", w, err)
		}
	}
	if d.Len() != 9 {
		t.Errorf("Clean mutated the source: Len %d", d.Len())
	}
}

func TestPick(t *testing.T) {
	d := New(map[string]string{"apple": "fruit", "crane": "bird", "blank": "  ", "boat": "vessel"})

	e, err := d.Pick(5, func(n int) int { return n - 1 })
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if e.Word != "crane" || e.Definition != "bird" {
		t.Errorf("Pick = %+v, want crane/bird", e)
	}

	if _, err := d.Pick(5, func(int) int { return 1 }); !errors.Is(err, ErrMissingDefinition) {
		t.Errorf("Pick(blank) err %v, want ErrMissingDefinition", err)
	}
	if _, err := d.Pick(7, func(int) int { return 0 }); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Pick(7) err %v, want ErrEmptyDictionary", err)
	}
	// Out-of-range indexes fall back to the first word.
	if e, err := d.Pick(5, func(int) int { return 99 }); err != nil || e.Word != "apple" {
		t.Errorf("Pick(out of range) = %+v, %v", e, err)
	}
}

func TestRandomSelector(t *testing.T) {
	d := New(map[string]string{"apple": "fruit", "crane": "bird"})
	s := NewRandomSelector(d)
	for i := 0; i < 20; i++ {
		e, err := s.Select(5)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if !d.Contains(e.Word) {
			t.Fatalf("Select returned unknown word %q", e.Word)
		}
	}
	s.Intn = func(int) int { return 0 }
	if e, _ := s.Select(5); e.Word != "apple" {
		t.Errorf("Select with fixed Intn = %q, want apple", e.Word)
	}
	if _, err := s.Select(4); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Select(4) err %v, want ErrEmptyDictionary", err)
	}
}

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(`{"Boat":"vessel","crane":"bird"}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !d.Contains("boat") || !d.Contains("crane") {
		t.Error("loaded words missing")
	}
	if _, err := Load(strings.NewReader(`["not","an","object"]`)); !errors.Is(err, ErrParse) {
		t.Errorf("Load(array) err %v, want ErrParse", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrPath) {
		t.Errorf("err %v, want ErrPath", err)
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	d := New(map[string]string{"crane": "bird", "boat": "vessel"})
	path := filepath.Join(t.TempDir(), "clean.json")
	if err := SaveFile(d, path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Keys come out sorted.
	if bytes.Index(b, []byte(`"boat"`)) > bytes.Index(b, []byte(`"crane"`)) {
		t.Errorf("keys not sorted:\n%s", b)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !reflect.DeepEqual(got.Words(0), d.Words(0)) {
		t.Errorf("words %v, want %v", got.Words(0), d.Words(0))
	}
}

func TestDefaultAndOpen(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if !d.Contains("well-to-do") {
		t.Error("embedded dictionary should contain hyphenated entries before cleaning")
	}

	c, err := Open("", 5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if c.Contains("well-to-do") || c.Contains("abandon") {
		t.Error("Open should clean long and hyphenated words")
	}
	if !c.Contains("boat") || !c.Contains("crane") {
		t.Error("Open dropped short words")
	}

	if _, err := Open("", 9); !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Open(9) err %v, want ErrEmptyDictionary", err)
	}
}

func TestOpen_OnlyPlayableTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	raw := `{"naïve":"a","x ray":"b","o'er":"c","crane":"d"}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := Open(path, 5)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, want := d.Words(5), []string{"crane"}; !reflect.DeepEqual(got, want) {
		t.Errorf("targets %v, want %v", got, want)
	}
}
