package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestRegisterAndCreate(t *testing.T) {
	r := New[string]()
	r.Register("a", func(config map[string]string) (string, error) {
		return "value-" + config["suffix"], nil
	})

	if !r.Has("a") {
		t.Error("Has(a) = false after Register")
	}
	if r.Has("b") {
		t.Error("Has(b) = true, never registered")
	}

	got, err := r.Create("a", map[string]string{"suffix": "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got != "value-x" {
		t.Errorf("Create = %q", got)
	}
}

func TestCreateUnknownListsAvailable(t *testing.T) {
	r := New[int]()
	r.Register("known", func(_ map[string]string) (int, error) { return 1, nil })

	_, err := r.Create("missing", nil)
	if err == nil {
		t.Fatal("expected error for unknown name")
	}
	if !strings.Contains(err.Error(), "known") {
		t.Errorf("error = %v, want it to list registered backends", err)
	}
}

func TestRegisterIgnoresBlankAndNil(t *testing.T) {
	r := New[int]()
	r.Register("", func(_ map[string]string) (int, error) { return 1, nil })
	r.Register("nilfactory", nil)

	if len(r.List()) != 0 {
		t.Errorf("List = %v, want empty", r.List())
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := New[int]()
	r.Register("x", func(_ map[string]string) (int, error) { return 1, nil })
	r.Register("x", func(_ map[string]string) (int, error) { return 2, nil })

	got, err := r.Create("x", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got != 2 {
		t.Errorf("Create = %d, want the later factory's value", got)
	}
}

func TestCreatePropagatesFactoryError(t *testing.T) {
	r := New[int]()
	want := errors.New("bad config")
	r.Register("x", func(_ map[string]string) (int, error) { return 0, want })

	if _, err := r.Create("x", nil); !errors.Is(err, want) {
		t.Errorf("err = %v, want factory's error", err)
	}
}

func TestListSorted(t *testing.T) {
	r := New[int]()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(name, func(_ map[string]string) (int, error) { return 0, nil })
	}

	got := r.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
