package purchase

import "testing"

func TestOutcomeZeroValueIsNotApplied(t *testing.T) {
	var o Outcome
	if o == OutcomeApplied {
		t.Fatal("zero outcome must not read as applied")
	}
	if o.String() != "invalid" {
		t.Fatalf("zero outcome String() = %q", o.String())
	}
}

func TestOutcomeStrings(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeApplied:        "applied",
		OutcomeAlreadyApplied: "already_applied",
		OutcomeUnknownIntent:  "unknown_intent",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}
