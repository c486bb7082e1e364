package service

import (
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
)

func TestCaptchaDisabledProviderPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none", Scenes: config.CaptchaSceneConfig{Signin: true}})
	if svc.Enabled(constants.CaptchaSceneSignin) {
		t.Fatalf("provider none should disable every scene")
	}
	if err := svc.Verify(constants.CaptchaSceneSignin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("verify should pass when disabled: %v", err)
	}
	if _, err := svc.GenerateImageChallenge(); err != ErrCaptchaConfigInvalid {
		t.Fatalf("expected ErrCaptchaConfigInvalid, got %v", err)
	}
	if got := svc.PublicSetting().Provider; got != constants.CaptchaProviderNone {
		t.Fatalf("unexpected provider: %s", got)
	}
}

func TestCaptchaImageVerify(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "Image",
		Scenes:   config.CaptchaSceneConfig{Signup: true},
	})
	if !svc.Enabled(constants.CaptchaSceneSignup) || svc.Enabled(constants.CaptchaSceneSignin) {
		t.Fatalf("unexpected scene switches")
	}
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{}); err != ErrCaptchaRequired {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("empty challenge: %+v", challenge)
	}
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong"}); err != ErrCaptchaInvalid {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}
	// 校验失败后答案已清除，重新生成一次
	challenge, err = svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	answer := svc.store().Get(challenge.CaptchaID, false)
	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: answer}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}
