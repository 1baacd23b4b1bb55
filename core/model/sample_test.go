package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSampleJSONFieldNames(t *testing.T) {
	s := Sample{RunID: "r", Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), InsulinOnBoard: 1.5}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"run_id":"r"`, `"iob":1.5`, `"cob":0`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("missing %s in %s", key, b)
		}
	}
	if strings.Contains(string(b), "override") {
		t.Fatalf("empty override should be omitted: %s", b)
	}
}
