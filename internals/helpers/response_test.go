package helper

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationMap(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"min=3"`
		Kind  string `validate:"oneof=a b"`
	}

	err := validator.New().Struct(form{Email: "not-an-email", Name: "x", Kind: "c"})
	m := ValidationMap(err)

	if len(m["email"]) == 0 || !strings.Contains(m["email"][0], "valid email") {
		t.Errorf("email messages = %v", m["email"])
	}
	if len(m["name"]) == 0 || !strings.Contains(m["name"][0], "minimum 3") {
		t.Errorf("name messages = %v", m["name"])
	}
	if len(m["kind"]) == 0 || !strings.Contains(m["kind"][0], "one of") {
		t.Errorf("kind messages = %v", m["kind"])
	}
}

func TestValidationMapRequired(t *testing.T) {
	type form struct {
		Email string `validate:"required"`
	}
	m := ValidationMap(validator.New().Struct(form{}))
	if len(m["email"]) == 0 || m["email"][0] != "required" {
		t.Errorf("email messages = %v", m["email"])
	}
}

func TestValidationMapPlainError(t *testing.T) {
	m := ValidationMap(errors.New("bad payload"))
	if len(m["body"]) != 1 || m["body"][0] != "bad payload" {
		t.Errorf("body messages = %v", m["body"])
	}
}

func TestValidationMapNil(t *testing.T) {
	if m := ValidationMap(nil); len(m) != 0 {
		t.Errorf("map = %v, want empty", m)
	}
}
