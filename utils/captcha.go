package utils

import (
	"sync"
	"time"

	"github.com/mojocn/base64Captcha"
)

var (
	captchaStore     base64Captcha.Store
	captchaStoreOnce sync.Once
)

// captchaBackend prefers Redis so answers survive across instances, falling back to memory.
func captchaBackend() base64Captcha.Store {
	captchaStoreOnce.Do(func() {
		if GetRedis() != nil {
			captchaStore = NewRedisCaptchaStore(10 * time.Minute)
			return
		}
		captchaStore = base64Captcha.DefaultMemStore
	})
	return captchaStore
}

// GenerateCaptcha creates a digit captcha and returns (id, dataURI) for the contact form.
func GenerateCaptcha() (string, string, error) {
	driver := base64Captcha.NewDriverDigit(40, 120, 5, 0.7, 80)
	c := base64Captcha.NewCaptcha(driver, captchaBackend())
	id, b64, _, err := c.Generate()
	return id, b64, err
}

// VerifyCaptcha checks the answer and consumes the captcha either way.
func VerifyCaptcha(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return captchaBackend().Verify(id, answer, true)
}
