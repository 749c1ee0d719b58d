package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError 是服务端返回的错误响应，Messages 是规范化后的错误列表
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// ParseErrorResponse 把错误响应体规范化为字符串列表。支持三种格式：
// 数组 (每个元素一条)、{"error": "..."} 对象、以及 {字段: 信息} 对象 (转换为 "字段: 信息")。
// 空值 (null、""、false、0) 不会产生条目。
func ParseErrorResponse(statusCode int, body []byte) []string {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, raw := range list {
			msgs = append(msgs, valueText(raw))
		}
		return msgs
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = http.StatusText(statusCode)
		}
		return []string{text}
	}

	if raw, ok := obj["error"]; ok && !isEmptyValue(raw) {
		return []string{valueText(raw)}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		if isEmptyValue(obj[k]) {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, valueText(obj[k])))
	}
	return msgs
}

// isEmptyValue 判断 JSON 值是否为 null、""、false 或 0
func isEmptyValue(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	}
	return false
}

// valueText 把 JSON 值转换为文本：字符串原样，数组按元素用逗号连接，其它保留 JSON
func valueText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, valueText(item))
		}
		return strings.Join(parts, ",")
	}
	return strings.TrimSpace(string(raw))
}
