package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username: "  alice  ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := LoginRequest{
		Username: "eve<script>alert('x')</script>",
		Password: "password123",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Username, "&lt;script&gt;")
	assert.NotContains(t, req.Username, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	note := "  <b>vip</b>  "
	in := struct {
		Name string
		Note *string
	}{Name: "bob", Note: &note}
	SanitizeStruct(&in)

	assert.Equal(t, "bob", in.Name)
	assert.Equal(t, "&lt;b&gt;vip&lt;/b&gt;", *in.Note)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	in := struct {
		Name string
		Note *string
	}{Name: "carol", Note: nil}
	SanitizeStruct(&in)
	assert.Nil(t, in.Note)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"alice-01",
		"PLAYER_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"player 001",  // space
		"player<001>", // angle brackets
		"bob;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"bob\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestSanitizeStruct_AutoplayRequest(t *testing.T) {
	req := AutoplayRequest{
		BetAmount:     1000,
		Rounds:        10,
		BetAdjustment: "  reset-to-base  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "reset-to-base", req.BetAdjustment)
}
