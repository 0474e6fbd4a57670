// Package validate は gin のバインディングに独自のバリデーションルールを登録します。
package validate

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerPattern は受け付けるティッカーの形です（"2330", "2330.TW", "^TWII", "BRK-B" など）。
var tickerPattern = regexp.MustCompile(`^\^?[A-Za-z0-9][A-Za-z0-9.\-=]{0,19}$`)

var once sync.Once

// IsTicker はティッカーとして妥当な文字列かどうかを返します。
func IsTicker(s string) bool {
	return tickerPattern.MatchString(s)
}

// Register は "ticker" ルールを gin の validator に登録します。複数回呼んでも安全です。
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
			return IsTicker(fl.Field().String())
		})
	})
}
