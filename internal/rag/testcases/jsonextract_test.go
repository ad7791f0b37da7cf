package testcases

import (
	"strings"
	"testing"
)

func TestExtractTestCases_Tolerations(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
	}{
		{
			name:    "plain array",
			raw:     `[{"Test_ID":"TC-001","Feature":"login"}]`,
			wantLen: 1,
		},
		{
			name:    "fenced with trailing comma",
			raw:     "Here you go:\n```json\n[{\"a\":1},]\n```",
			wantLen: 1,
		},
		{
			name:    "fence without language tag",
			raw:     "```\n[{\"Test_ID\":\"TC-002\"}]\n```",
			wantLen: 1,
		},
		{
			name:    "surrounding prose",
			raw:     "Sure! The test cases are: [{\"Test_ID\":\"TC-003\"}] Hope that helps.",
			wantLen: 1,
		},
		{
			name:    "trailing comma inside object",
			raw:     `[{"Test_ID":"TC-004","Feature":"x",}]`,
			wantLen: 1,
		},
		{
			name: "python literals",
			raw:  `[{'Test_ID': 'TC-005', 'Steps': ['open page', 'click'], 'Type': None, 'Feature': True}]`,
			// None/True tolerated even though the fields end up zero-valued
			wantLen: 1,
		},
		{
			name:    "multiple elements",
			raw:     `[{"Test_ID":"TC-006"},{"Test_ID":"TC-007"},]`,
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTestCases(tt.raw)
			if err != nil {
				t.Fatalf("ExtractTestCases returned error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("got %d test cases, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestExtractTestCases_Fields(t *testing.T) {
	raw := `[{
		"Test_ID": "TC-010",
		"Feature": "Login",
		"Test_Scenario": "Valid credentials",
		"Steps": ["open page", "enter user", "submit"],
		"Expected_Result": "dashboard shown",
		"Type": "Positive",
		"Grounded_In": ["spec.md"]
	}]`

	got, err := ExtractTestCases(raw)
	if err != nil {
		t.Fatal(err)
	}
	tc := got[0]
	if tc.TestID != "TC-010" || tc.Type != "Positive" {
		t.Errorf("unexpected test case: %+v", tc)
	}
	if len(tc.Steps) != 3 || tc.Steps[2] != "submit" {
		t.Errorf("steps not preserved in order: %v", tc.Steps)
	}
	if len(tc.GroundedIn) != 1 || tc.GroundedIn[0] != "spec.md" {
		t.Errorf("grounding sources lost: %v", tc.GroundedIn)
	}
}

func TestExtractTestCases_Failures(t *testing.T) {
	for _, raw := range []string{
		"",
		"no array here at all",
		"only an opening [ bracket",
		"[{not even close}]",
	} {
		if _, err := ExtractTestCases(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestLiteralToJSON_SingleQuotesWithEmbeddedDouble(t *testing.T) {
	got := literalToJSON(`['say "hi"']`)
	if !strings.Contains(got, `"say \"hi\""`) {
		t.Errorf("embedded double quotes not escaped: %s", got)
	}
}
