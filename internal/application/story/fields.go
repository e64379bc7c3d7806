// Package story 实现儿童故事生成流水线：字段归一化、提示词构建、带语言校验的重试以及编排
package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "kidz-story-api/pkg/errors"
)

// Field 表单字段，JSON 中既可以是字符串也可以是字符串数组
type Field struct {
	values []string
	list   bool
}

// StringField 构造字符串字段
func StringField(s string) Field {
	return Field{values: []string{s}}
}

// ListField 构造数组字段
func ListField(items ...string) Field {
	if items == nil {
		items = []string{}
	}
	return Field{values: items, list: true}
}

// UnmarshalJSON 接受 string、[]string 或 null
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("field must be a string or a list of strings: %w", err)
		}
		*f = ListField(items...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field must be a string or a list of strings: %w", err)
	}
	*f = StringField(s)
	return nil
}

// MarshalJSON 按原始形态输出
func (f Field) MarshalJSON() ([]byte, error) {
	if f.list {
		return json.Marshal(f.values)
	}
	if len(f.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(f.values[0])
}

// IsList 是否为数组形态
func (f Field) IsList() bool { return f.list }

// Values 返回原始值
func (f Field) Values() []string { return f.values }

// items 去除空白项后的值
func (f Field) items() []string {
	out := make([]string, 0, len(f.values))
	for _, v := range f.values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsEmpty 未设置、空白字符串或没有非空元素的数组
func (f Field) IsEmpty() bool {
	return len(f.items()) == 0
}

// FormatField 将字段归一化为逗号分隔的字符串，空值返回校验错误
func FormatField(name string, f Field) (string, error) {
	items := f.items()
	if len(items) == 0 {
		return "", apperrors.NewValidationError(name)
	}
	if f.list {
		return strings.Join(items, ", "), nil
	}
	return items[0], nil
}

// ParseFavoriteThings 解析喜爱的事物：数组去空，字符串按逗号切分并去除首尾空白
func ParseFavoriteThings(f Field) ([]string, error) {
	var parsed []string
	if f.list {
		for _, v := range f.items() {
			parsed = append(parsed, strings.TrimSpace(v))
		}
	} else {
		for _, v := range f.values {
			for _, part := range strings.Split(v, ",") {
				if p := strings.TrimSpace(part); p != "" {
					parsed = append(parsed, p)
				}
			}
		}
	}
	if len(parsed) == 0 {
		return nil, apperrors.NewValidationError(FieldFavoriteThings)
	}
	return parsed, nil
}

var titleQuotes = regexp.MustCompile(`^["']|["']$`)

// CleanTitle 去掉模型常在标题首尾加上的引号
func CleanTitle(title string) string {
	return strings.TrimSpace(titleQuotes.ReplaceAllString(strings.TrimSpace(title), ""))
}
