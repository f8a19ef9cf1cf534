package transport

import (
	"encoding/json"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/fastygo/coachboard/domain"
)

func TestNewListWritesEmptyArrayForNil(t *testing.T) {
	var events []domain.CalendarEvent
	body, err := json.Marshal(NewList(events))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := gjson.ParseBytes(body)
	if raw := got.Get("data").Raw; raw != "[]" {
		t.Fatalf("expected data [], got %s", body)
	}
	if !got.Get("meta.count").Exists() || got.Get("meta.count").Int() != 0 {
		t.Errorf("expected meta.count 0, got %s", body)
	}
	if got.Get("status").String() != StatusSuccess {
		t.Errorf("unexpected status in %s", body)
	}
}

func TestNewErrorCarriesMessageAndMeta(t *testing.T) {
	body, err := json.Marshal(NewError("BUSY", "try later", map[string]bool{"accepted": false}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := gjson.ParseBytes(body)
	if got.Get("status").String() != StatusError || got.Get("code").String() != "BUSY" || got.Get("error").String() != "try later" {
		t.Fatalf("unexpected error envelope %s", body)
	}
	if got.Get("data").Exists() || !got.Get("meta.accepted").Exists() {
		t.Errorf("expected meta without data, got %s", body)
	}
}
