package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestPasswordPolicy_Default(t *testing.T) {
	p := DefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "SecurePass123", true},
		{"another strong", "AnotherPass123", true},
		{"bare word", "weak", false},
		{"no digit", "SecurePassword", false},
		{"no upper", "securepass123", false},
		{"no lower", "SECUREPASS123", false},
		{"too short", "Ab1", false},
		{"over bcrypt limit", "Aa1" + strings.Repeat("x", 70), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := p.Check(tt.password)
			if (len(problems) == 0) != tt.ok {
				t.Fatalf("Check(%q) = %v, want ok=%v", tt.password, problems, tt.ok)
			}
		})
	}
}

func TestPasswordPolicy_RequireSymbol(t *testing.T) {
	p := DefaultPasswordPolicy()
	p.RequireSymbol = true

	if problems := p.Check("SecurePass123"); len(problems) != 1 {
		t.Fatalf("expected single symbol problem, got %v", problems)
	}
	if problems := p.Check("SecurePass123!"); len(problems) != 0 {
		t.Fatalf("expected pass, got %v", problems)
	}
}

func TestAccountView_OmitsPasswordHash(t *testing.T) {
	acc := &Account{
		ID:           "id-1",
		Email:        "a@b.com",
		PasswordHash: "$2a$10$hash",
		FirstName:    "A",
		LastName:     "B",
		Role:         RoleEmployee,
		IsActive:     true,
	}

	raw, err := json.Marshal(acc.View())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := strings.ToLower(string(raw))
	if strings.Contains(body, "password") || strings.Contains(body, "hash") {
		t.Fatalf("view leaked secret: %s", raw)
	}

	var fields map[string]any
	_ = json.Unmarshal(raw, &fields)
	for _, key := range []string{"id", "email", "firstName", "lastName", "role", "isActive"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing %q in %s", key, raw)
		}
	}
	if len(fields) != 6 {
		t.Fatalf("expected exactly 6 fields, got %d: %s", len(fields), raw)
	}
}

func TestSecret_IsRedacted(t *testing.T) {
	s := Secret("SecurePass123")

	if got := fmt.Sprintf("%v %s %#v", s, s, s); strings.Contains(got, "SecurePass123") {
		t.Fatalf("secret leaked through fmt: %s", got)
	}
	raw, _ := json.Marshal(struct {
		P Secret `json:"p"`
	}{P: s})
	if strings.Contains(string(raw), "SecurePass123") {
		t.Fatalf("secret leaked through json: %s", raw)
	}
	if s.Reveal() != "SecurePass123" {
		t.Fatalf("Reveal returned %q", s.Reveal())
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleIssuer, RoleManager, RoleEmployee} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if Role("employee").Valid() || Role("").Valid() {
		t.Fatalf("unknown roles must be invalid")
	}
}
