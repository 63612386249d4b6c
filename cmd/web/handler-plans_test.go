package main

import (
	"strings"
	"testing"
)

func TestPlanGeneration(t *testing.T) {
	server := startTestServer(t)
	ctx := t.Context()
	client := server.Client()

	if _, err := client.SignUp(ctx, "planner@example.com", "correct horse battery", "Planner"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	doc, err := client.GetDoc(ctx, "/plans/generate")
	if err != nil {
		t.Fatalf("get plan generation page: %v", err)
	}

	doc, err = client.SubmitForm(ctx, doc, "/plans/generate", map[string]string{
		"Training goal":        "strength",
		"Experience":           "untrained",
		"Weekly training days": "3",
		"Available equipment":  "Barbell",
	})
	if err != nil {
		t.Fatalf("submit generation form: %v", err)
	}

	if doc.Find("h1:contains('Full Body Strength Workout')").Length() == 0 {
		t.Error("expected full body strength plan title")
	}
	if got := doc.Find("table").Length(); got == 0 {
		t.Error("expected prescribed set tables on the plan page")
	}
	if !strings.HasPrefix(doc.Url.Path, "/plans/") {
		t.Fatalf("expected to land on a plan detail page, got %s", doc.Url.Path)
	}
	publicID := strings.TrimPrefix(doc.Url.Path, "/plans/")

	t.Run("plan appears in the plan list", func(t *testing.T) {
		listDoc, err := client.GetDoc(ctx, "/plans")
		if err != nil {
			t.Fatalf("get plans page: %v", err)
		}
		if listDoc.Find("a[href='/plans/" + publicID + "']").Length() == 0 {
			t.Error("expected generated plan in the list")
		}
	})

	t.Run("plan can be deleted", func(t *testing.T) {
		listDoc, err := client.SubmitForm(ctx, doc, "/plans/"+publicID+"/delete", nil)
		if err != nil {
			t.Fatalf("submit delete form: %v", err)
		}
		if listDoc.Find("a[href='/plans/" + publicID + "']").Length() != 0 {
			t.Error("expected plan to be gone after deletion")
		}
	})
}

func TestPlanGenerationRequiresDaySelection(t *testing.T) {
	server := startTestServer(t)
	ctx := t.Context()
	client := server.Client()

	if _, err := client.SignUp(ctx, "splitter@example.com", "correct horse battery", "Splitter"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	doc, err := client.GetDoc(ctx, "/plans/generate")
	if err != nil {
		t.Fatalf("get plan generation page: %v", err)
	}

	// An advanced lifter on five weekly days resolves to a push/pull/legs
	// split, which needs a day focus.
	doc, err = client.SubmitForm(ctx, doc, "/plans/generate", map[string]string{
		"Training goal":        "strength",
		"Experience":           "advanced",
		"Weekly training days": "5",
		"Available equipment":  "Barbell",
	})
	if err != nil {
		t.Fatalf("submit generation form: %v", err)
	}

	if doc.Find("p[role='alert']").Length() == 0 {
		t.Error("expected a validation message for the missing day focus")
	}
}
