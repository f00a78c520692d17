package form

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrEmptyBody 请求体为空。
var ErrEmptyBody = errors.New("empty request body")

// DecodeJSON 把 JSON 对象解析为字段映射；空请求体与非对象均视为参数错误。
func DecodeJSON(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	var input map[string]any
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, ErrEmptyBody
	}
	return input, nil
}
