package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/recipebox/recipebox-go/internal/crypto"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestNewUser(t *testing.T) {
	u, err := NewUser("alice", "s3cret", strPtr("https://img"), nil, crypto.MinCost)
	if err != nil {
		t.Fatalf("NewUser() unexpected error: %v", err)
	}
	if !u.Password.IsSet() {
		t.Fatal("NewUser() did not set a password hash")
	}
	if !u.Authenticate("s3cret") {
		t.Error("Authenticate() returned false for correct password")
	}
	if u.Authenticate("wrong") {
		t.Error("Authenticate() returned true for wrong password")
	}
}

func TestNewUserEmptyUsername(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := NewUser(name, "s3cret", nil, nil, crypto.MinCost)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("NewUser(%q) error = %v, want *ValidationError", name, err)
		}
		if verr.Field != "username" {
			t.Errorf("ValidationError.Field = %q, want %q", verr.Field, "username")
		}
	}
}

func TestNewUserUsernameTooLong(t *testing.T) {
	if _, err := NewUser(strings.Repeat("ü", MaxUsernameLength), "pw", nil, nil, crypto.MinCost); err != nil {
		t.Fatalf("NewUser() with %d-character username: unexpected error: %v", MaxUsernameLength, err)
	}

	_, err := NewUser(strings.Repeat("a", MaxUsernameLength+1), "pw", nil, nil, crypto.MinCost)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NewUser() error = %v, want *ValidationError", err)
	}
	if verr.Message != "username must be at most 255 characters long" {
		t.Errorf("ValidationError.Message = %q", verr.Message)
	}
}

func TestAuthenticateWithoutHash(t *testing.T) {
	var u User
	if u.Authenticate("") {
		t.Error("Authenticate() returned true for a user without a password hash")
	}
}

func TestPasswordHashIsUnreadable(t *testing.T) {
	u, err := NewUser("alice", "s3cret", nil, nil, crypto.MinCost)
	if err != nil {
		t.Fatalf("NewUser() unexpected error: %v", err)
	}

	if _, err := json.Marshal(u.Password); !errors.Is(err, ErrPasswordHashUnreadable) {
		t.Errorf("json.Marshal(PasswordHash) error = %v, want ErrPasswordHashUnreadable", err)
	}
	if _, err := json.Marshal(u); err == nil {
		t.Error("json.Marshal(User) expected error")
	}

	for _, s := range []string{fmt.Sprint(u.Password), fmt.Sprintf("%+v", *u), fmt.Sprintf("%#v", u.Password)} {
		if strings.Contains(s, "$2a$") {
			t.Errorf("formatted output leaked the hash: %s", s)
		}
	}
}

func TestPasswordHashValueScan(t *testing.T) {
	var p PasswordHash
	if _, err := p.Value(); err == nil {
		t.Error("Value() expected error for unset hash")
	}

	if err := p.Set("pw", crypto.MinCost); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	v, err := p.Value()
	if err != nil {
		t.Fatalf("Value() unexpected error: %v", err)
	}

	var restored PasswordHash
	if err := restored.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan() unexpected error: %v", err)
	}
	if !restored.Matches("pw") {
		t.Error("restored hash does not match the original password")
	}

	if err := restored.Scan(42); err == nil {
		t.Error("Scan(int) expected error")
	}
	if err := restored.Scan(nil); err != nil || restored.IsSet() {
		t.Errorf("Scan(nil) = %v, IsSet = %v; want nil, false", err, restored.IsSet())
	}
}

func TestNewRecipe(t *testing.T) {
	longText := strings.Repeat("x", MinInstructionsLength)

	tests := []struct {
		name         string
		title        string
		instructions string
		minutes      *int
		wantField    string
	}{
		{name: "valid", title: "Soup", instructions: longText, minutes: intPtr(30)},
		{name: "zero minutes", title: "Toast", instructions: longText, minutes: intPtr(0)},
		{name: "empty title", title: "", instructions: longText, minutes: intPtr(5), wantField: "title"},
		{name: "blank title", title: "  ", instructions: longText, minutes: intPtr(5), wantField: "title"},
		{name: "short instructions", title: "Soup", instructions: longText[1:], minutes: intPtr(5), wantField: "instructions"},
		{name: "title checked first", title: "", instructions: "short", minutes: nil, wantField: "title"},
		{name: "missing minutes", title: "Soup", instructions: longText, minutes: nil, wantField: "minutes_to_complete"},
		{name: "negative minutes", title: "Soup", instructions: longText, minutes: intPtr(-1), wantField: "minutes_to_complete"},
		{name: "longest title", title: strings.Repeat("é", MaxTitleLength), instructions: longText, minutes: intPtr(1)},
		{name: "title too long", title: strings.Repeat("t", MaxTitleLength+1), instructions: longText, minutes: intPtr(1), wantField: "title"},
		{name: "largest minutes", title: "Stew", instructions: longText, minutes: intPtr(MaxMinutes)},
		{name: "minutes beyond INT column", title: "Stew", instructions: longText, minutes: intPtr(3_000_000_000), wantField: "minutes_to_complete"},
		{name: "multibyte instructions", title: "Soupe", instructions: strings.Repeat("é", MinInstructionsLength), minutes: intPtr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecipe(7, tt.title, tt.instructions, tt.minutes)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("NewRecipe() unexpected error: %v", err)
				}
				if r.UserID != 7 || r.MinutesToComplete != *tt.minutes {
					t.Errorf("NewRecipe() = %+v", r)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewRecipe() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestRecipeResponse(t *testing.T) {
	r := Recipe{
		ID:                3,
		UserID:            9,
		Title:             "Soup",
		Instructions:      strings.Repeat("x", 60),
		MinutesToComplete: 20,
		Owner:             &User{ID: 9, Username: "alice", Bio: strPtr("cook")},
	}

	b, err := json.Marshal(r.Response())
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}
	user, ok := got["user"].(map[string]any)
	if !ok {
		t.Fatalf("response has no nested user: %s", b)
	}
	if user["username"] != "alice" || user["bio"] != "cook" {
		t.Errorf("nested user = %v", user)
	}
	if v, present := user["image_url"]; !present || v != nil {
		t.Errorf("image_url = %v (present %v), want explicit null", v, present)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("response leaked a password field")
	}
}
