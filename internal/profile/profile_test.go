package profile

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestClone_IsDeep(t *testing.T) {
	s := Snapshot{FullName: "Jane Doe", Skills: []string{"Go"}, Experience: []ExperienceEntry{{Title: "Eng"}}}
	c := s.Clone()
	c.Skills[0] = "Rust"
	c.Experience[0].Title = "Mgr"
	if s.Skills[0] != "Go" || s.Experience[0].Title != "Eng" {
		t.Fatalf("clone shares backing arrays with original")
	}
}

func TestHasName(t *testing.T) {
	if (Snapshot{FullName: UnknownName}).HasName() {
		t.Fatalf("sentinel name must not count as a name")
	}
	if !(Snapshot{FullName: "Jane"}).HasName() {
		t.Fatalf("expected real name")
	}
}

func TestImportRequest_JSONOmitsAbsentFields(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	req := NewImportRequest("https://site.example/in/jane", "", Snapshot{FullName: UnknownName}, "Unknown", at)
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	for _, absent := range []string{"public_identifier", "headline", "first_name", "avatar_url", "job_id"} {
		if strings.Contains(out, absent) {
			t.Fatalf("expected %s to be omitted: %s", absent, out)
		}
	}
	if !strings.Contains(out, `"captured_at":"2024-05-01T11:00:00Z"`) {
		t.Fatalf("expected UTC capture timestamp: %s", out)
	}
	if !strings.Contains(out, `"skills":[]`) {
		t.Fatalf("expected empty skills list: %s", out)
	}
}
