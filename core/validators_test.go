package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func initTestValidators(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func Test_phoneValidation(t *testing.T) {
	validate, _ := initTestValidators(t)

	obj := struct {
		Phone string `json:"phone" validate:"phone"`
	}{}

	tests := []struct {
		phone string
		valid bool
	}{
		{"+91 98765 43210", true},
		{"0484-2345678", true},
		{"(0484) 234 5678", true},
		{"1234567", true},
		{"12345", false},                     // too short
		{"123456789012345678901", false},     // too long
		{"not-a-phone", false},
		{"98765x43210", false},
	}
	for _, tt := range tests {
		obj.Phone = tt.phone
		err := validate.Struct(obj)
		if tt.valid && err != nil {
			t.Errorf("phone %q: unexpected error %v", tt.phone, err)
		} else if !tt.valid && err == nil {
			t.Errorf("phone %q: expected an error", tt.phone)
		}
	}
}

func Test_customTranslations(t *testing.T) {
	validate, translator := initTestValidators(t)

	obj := struct {
		Name   string `json:"name" validate:"required"`
		Status string `json:"status" validate:"required,oneof=pending contacted admitted closed"`
		Phone  string `json:"phone" validate:"required,phone"`
	}{Status: "approved", Phone: "lol"}

	err := validate.Struct(obj)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors, got %T", err)
	}

	want := map[string]string{
		"name":   "this field is required",
		"status": "value is not one of the allowed choices",
		"phone":  "enter a valid phone number",
	}
	for _, fe := range vErrs {
		if text := fe.Translate(translator); text != want[fe.Field()] {
			t.Errorf("%s: translation = %q, want %q", fe.Field(), text, want[fe.Field()])
		}
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  Hello "); got != "Hello" {
		t.Errorf("CleanString() = %q", got)
	}
	if got := CleanString(" HeLLo ", true); got != "hello" {
		t.Errorf("CleanString(lower) = %q", got)
	}
}

func TestDBOrdering_String(t *testing.T) {
	if got := (DBOrdering{Field: "name", Ascending: true}).String(); got != "name ASC" {
		t.Errorf("String() = %q", got)
	}
	if got := (DBOrdering{Field: "created_at"}).String(); got != "created_at DESC" {
		t.Errorf("String() = %q", got)
	}
}
