// Package dto は Yahoo Finance の JSON レスポンスに対応する構造体を定義します。
package dto

import (
	"bytes"
	"encoding/json"
)

// RawValue は quoteSummary の {"raw": 1.23, "fmt": "1.23"} 形式の値です。
// 空オブジェクト・null・素の数値のいずれも受け付けます。
type RawValue struct {
	Raw *float64
}

func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		v.Raw = nil
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			Raw *float64 `json:"raw"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		v.Raw = obj.Raw
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// 文字列などの想定外の形は欠損として扱う
		v.Raw = nil
		return nil
	}
	v.Raw = &f
	return nil
}

// Float は値を返します。欠損時は0です。
func (v RawValue) Float() float64 {
	if v.Raw == nil {
		return 0
	}
	return *v.Raw
}

// Valid は値が存在する場合に true を返します。
func (v RawValue) Valid() bool {
	return v.Raw != nil
}

// APIError は Yahoo が返すエラー本文です。
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
