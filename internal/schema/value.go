// Package schema 提供嵌入式数据库的结构检视与即席查询执行
// 数据表清单和查询结果完全建立在一个通用的语句执行原语之上，
// 后端数据库永远是真相来源，刷新之间不保留任何缓存推断
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind 单元格值的类别标签
type ValueKind int

// 查询结果单元格的四种值类别
const (
	KindNull   ValueKind = iota // 空值
	KindText                    // 文本
	KindNumber                  // 数值
	KindBool                    // 布尔值
)

// Value 是查询结果中一个单元格的带标签变体值
// 行内的列顺序由结果的 Columns 元数据单独保持，值本身不携带列名
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
}

// NullValue 构造空值
func NullValue() Value {
	return Value{Kind: KindNull}
}

// TextValue 构造文本值
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue 构造数值
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// BoolValue 构造布尔值
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// valueOf 将数据库驱动返回的原生值转换为带标签的变体值
func valueOf(v any) Value {
	switch v := v.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(v)
	case int64:
		return NumberValue(float64(v))
	case float64:
		return NumberValue(v)
	case []byte:
		return TextValue(string(v))
	case string:
		return TextValue(v)
	default:
		return TextValue(fmt.Sprint(v))
	}
}

// String 返回值的显示文本
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// IsNull 判断是否为空值
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// MarshalJSON 按值类别序列化为对应的 JSON 标量
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return nil, fmt.Errorf("未知的值类别: %d", v.Kind)
	}
}
