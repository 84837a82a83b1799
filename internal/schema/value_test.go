package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValueString 测试值的显示文本
func TestValueString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "NULL", NullValue().String())
	require.Equal(t, "你好", TextValue("你好").String())
	require.Equal(t, "42", NumberValue(42).String())
	require.Equal(t, "3.14", NumberValue(3.14).String())
	require.Equal(t, "true", BoolValue(true).String())
	require.Equal(t, "false", BoolValue(false).String())
}

// TestValueMarshalJSON 测试按类别序列化为 JSON 标量
func TestValueMarshalJSON(t *testing.T) {
	t.Parallel()

	row := []Value{NullValue(), TextValue("标题"), NumberValue(7), BoolValue(true)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	require.JSONEq(t, `[null, "标题", 7, true]`, string(data))
}

// TestValueOf 测试驱动原生值的归类
func TestValueOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, NullValue(), valueOf(nil))
	require.Equal(t, NumberValue(3), valueOf(int64(3)))
	require.Equal(t, NumberValue(1.5), valueOf(1.5))
	require.Equal(t, TextValue("raw"), valueOf([]byte("raw")))
	require.Equal(t, TextValue("s"), valueOf("s"))
	require.Equal(t, BoolValue(true), valueOf(true))
}
