package main

import (
	"testing"
)

func TestAccountManagement(t *testing.T) {
	server := startTestServer(t)
	ctx := t.Context()
	client := server.Client()

	if _, err := client.SignUp(ctx, "member@example.com", "correct horse battery", "Member"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	t.Run("duplicate email is rejected", func(t *testing.T) {
		doc, err := client.SignUp(ctx, "member@example.com", "another password", "Other")
		if err != nil {
			t.Fatalf("sign up: %v", err)
		}
		if doc.Find("p[role='alert']:contains('already exists')").Length() == 0 {
			t.Error("expected duplicate email message")
		}
	})

	t.Run("display name can be changed", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/account")
		if err != nil {
			t.Fatalf("get account page: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, "/account", map[string]string{
			"Display name": "Renamed Member",
		}); err != nil {
			t.Fatalf("submit rename form: %v", err)
		}
		if doc.Find("input[value='Renamed Member']").Length() == 0 {
			t.Error("expected the new display name in the form")
		}
	})

	t.Run("account deletion signs the user out", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/account")
		if err != nil {
			t.Fatalf("get account page: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, "/account/delete", nil); err != nil {
			t.Fatalf("submit delete form: %v", err)
		}
		if doc.Find("a[href='/signin']").Length() == 0 {
			t.Error("expected anonymous front page after account deletion")
		}

		signInDoc, err := client.SignIn(ctx, "member@example.com", "correct horse battery")
		if err != nil {
			t.Fatalf("sign in: %v", err)
		}
		if signInDoc.Find("p[role='alert']").Length() == 0 {
			t.Error("expected sign-in to fail for a deleted account")
		}
	})
}
