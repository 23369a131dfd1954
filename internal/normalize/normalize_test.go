package normalize

import "testing"

func TestCollapseSpace(t *testing.T) {
	cases := map[string]string{
		"  Jane \n\t Doe  ": "Jane Doe",
		"Jane\u00a0Doe":     "Jane Doe",
		"":                  "",
		"   ":               "",
	}
	for in, want := range cases {
		if got := CollapseSpace(in); got != want {
			t.Fatalf("CollapseSpace(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollapseSpace_KeepsCharacters(t *testing.T) {
	cases := []struct{ in, want string }{
		{"CO₂ capture", "CO₂ capture"},
		{"½ marathon", "½ marathon"},
		{"Ｊａｎｅ\u3000Ｄｏｅ", "Ｊａｎｅ Ｄｏｅ"},
		{"ﬁnance  Ⅻ x²", "ﬁnance Ⅻ x²"},
		{"Jose\u0301\u00a0Garci\u0301a", "Jos\u00e9 Garc\u00eda"},
	}
	for _, c := range cases {
		if got := CollapseSpace(c.in); got != c.want {
			t.Fatalf("CollapseSpace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		in         string
		start, end string
	}{
		{"Jan 2020 - Present", "Jan 2020", "Present"},
		{"2018 – 2022", "2018", "2022"},
		{"Summer intern", "", ""},
		{"Mar 2019 - Aug 2021 · 2 yrs 6 mos", "Mar 2019", "Aug 2021"},
		{"September 2015 — present", "September 2015", "Present"},
		{"Summer 2019 - 2020", "", ""},
		{"2019", "", ""},
		{"2018 - 2020 - 2022", "", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		got := ParseDateRange(c.in)
		if got.Start != c.start || got.End != c.end {
			t.Fatalf("ParseDateRange(%q) = %+v, want {%q %q}", c.in, got, c.start, c.end)
		}
	}
}

func TestParseHeadlineJob(t *testing.T) {
	cases := []struct {
		in             string
		title, company string
	}{
		{"Senior Engineer at Acme Corp", "Senior Engineer", "Acme Corp"},
		{"Engineer | Acme | Remote", "Engineer", "Acme"},
		{"Passionate builder", "Passionate builder", ""},
		{"Staff SRE at Globex | Kubernetes · Go", "Staff SRE", "Globex"},
		{"Designer · Initech", "Designer", "Initech"},
		{"", "", ""},
	}
	for _, c := range cases {
		got := ParseHeadlineJob(c.in)
		if got.Title != c.title || got.Company != c.company {
			t.Fatalf("ParseHeadlineJob(%q) = %+v, want {%q %q}", c.in, got, c.title, c.company)
		}
	}
}

func TestParseDegree(t *testing.T) {
	cases := []struct {
		in            string
		degree, field string
	}{
		{"Bachelor of Science, Computer Science", "Bachelor of Science", "Computer Science"},
		{"BS in CS", "BS", "CS"},
		{"PhD", "PhD", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		got := ParseDegree(c.in)
		if got.Degree != c.degree || got.Field != c.field {
			t.Fatalf("ParseDegree(%q) = %+v, want {%q %q}", c.in, got, c.degree, c.field)
		}
	}
}

func TestTruncateAtSeparator(t *testing.T) {
	if got := TruncateAtSeparator("Acme Corp · Full-time", "·•|"); got != "Acme Corp" {
		t.Fatalf("unexpected %q", got)
	}
	if got := TruncateAtSeparator(" Acme ", ""); got != "Acme" {
		t.Fatalf("unexpected %q", got)
	}
}
