// Package apperr はアプリケーション全体で共有するエラー種別を定義します。
//
// 各レイヤーは fmt.Errorf("%w: ...", apperr.ErrXxx) で文脈を付与して返し、
// HTTP レイヤーは errors.Is でステータスコードへ変換します。
package apperr

import "errors"

var (
	// ErrValidation は入力値が不正な場合のエラーです。
	ErrValidation = errors.New("invalid request")
	// ErrNotFound は指定されたリソースが存在しない場合のエラーです。
	ErrNotFound = errors.New("not found")
	// ErrNoData はティッカーに対応するデータがどの層からも得られなかった場合のエラーです。
	ErrNoData = errors.New("no data available")
	// ErrConflict は一意制約に違反した場合のエラーです。
	ErrConflict = errors.New("conflict")
	// ErrRateLimited は上流APIまたはクォータの上限に達した場合のエラーです。
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrUpstream は上流APIの呼び出しに失敗した場合のエラーです。
	ErrUpstream = errors.New("upstream provider error")
	// ErrUnavailable は任意のサブシステム（DB・キャッシュ）が無効な場合のエラーです。
	ErrUnavailable = errors.New("subsystem unavailable")
)

// DiagnosticError は利用者向けの診断メッセージを伴うエラーです。
// Kind は上記のセンチネルのいずれかで、errors.Is で判定できます。
type DiagnosticError struct {
	Kind   error
	Detail string
}

func (e *DiagnosticError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *DiagnosticError) Unwrap() error { return e.Kind }

// Diagnose は Kind と診断メッセージから DiagnosticError を生成します。
func Diagnose(kind error, detail string) error {
	return &DiagnosticError{Kind: kind, Detail: detail}
}
