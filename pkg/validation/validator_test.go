package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

func engine(t *testing.T) *validator.Validate {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("unexpected validator engine")
	}
	return v
}

func TestPasswordLengthBoundary(t *testing.T) {
	v := engine(t)

	if err := v.Struct(signupPayload{Email: "a@b.com", Password: "12345"}); err == nil {
		t.Error("5-character password should fail")
	}
	if err := v.Struct(signupPayload{Email: "a@b.com", Password: "123456"}); err != nil {
		t.Errorf("6-character password should pass: %v", err)
	}
}

func TestOTPCodeAlias(t *testing.T) {
	v := engine(t)

	type p struct {
		OTP string `json:"otp" validate:"required,otpcode"`
	}
	if err := v.Struct(p{OTP: "123456"}); err != nil {
		t.Errorf("6-digit code should pass: %v", err)
	}
	if err := v.Struct(p{OTP: "12345"}); err == nil {
		t.Error("5-digit code should fail")
	}
	if err := v.Struct(p{OTP: "abcdef"}); err == nil {
		t.Error("non-numeric code should fail")
	}
}

func TestToDetailsFieldMessages(t *testing.T) {
	v := engine(t)

	err := v.Struct(signupPayload{Email: "not-an-email", Password: ""})
	details := ToDetails(err)
	if details["Email"] == "" && details["email"] == "" {
		t.Errorf("expected email detail, got %v", details)
	}
	if len(details) != 2 {
		t.Errorf("expected two field errors, got %v", details)
	}
}
