package chain

import (
	"errors"
	"testing"
)

func TestSupport_ThreeStates(t *testing.T) {
	present := SupportedValue([]int{1, 2})
	if !present.Supported() {
		t.Error("value state should be supported")
	}
	if v, ok := present.Value(); !ok || len(v) != 2 {
		t.Errorf("expected value, got %v %v", v, ok)
	}

	empty := SupportedEmpty[[]int]()
	if !empty.Supported() {
		t.Error("empty state should be supported")
	}
	if _, ok := empty.Value(); ok {
		t.Error("empty state should carry no value")
	}

	unsupported := NotSupported[[]int]()
	if unsupported.Supported() {
		t.Error("unsupported state should not be supported")
	}
	if _, ok := unsupported.Value(); ok {
		t.Error("unsupported state should carry no value")
	}
}

func TestSupport_Unwrap(t *testing.T) {
	v, ok, err := SupportedValue(7).Unwrap()
	if err != nil || !ok || v != 7 {
		t.Errorf("expected (7, true, nil), got (%v, %v, %v)", v, ok, err)
	}

	_, ok, err = SupportedEmpty[int]().Unwrap()
	if err != nil || ok {
		t.Errorf("expected (_, false, nil), got (%v, %v)", ok, err)
	}

	_, _, err = NotSupported[int]().Unwrap()
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestSupport_ZeroValueIsUnsupported(t *testing.T) {
	var s Support[int]
	if s.Supported() {
		t.Error("zero Support should be unsupported")
	}
}
