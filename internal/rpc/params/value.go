// Package params 解析 JSON-RPC 位置参数, 保留 JSON 原始类型以便区分 int/bool/float.
package params

import (
	"bytes"
	"encoding/json"
	"strconv"

	pkgErrors "tcms/pkg/errors"
)

// Kind 参数的 JSON 类型
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

var kindNames = map[Kind]string{
	Null:   "null",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value 单个参数值, 只有与 Kind 对应的字段有效
type Value struct {
	Kind Kind

	b   bool
	i   int64
	f   float64
	s   string
	arr []Value
	obj map[string]Value
}

func NullValue() Value { return Value{Kind: Null} }
func BoolValue(b bool) Value { return Value{Kind: Bool, b: b} }
func IntValue(i int64) Value { return Value{Kind: Int, i: i} }
func FloatValue(f float64) Value { return Value{Kind: Float, f: f} }
func StringValue(s string) Value { return Value{Kind: String, s: s} }
func ArrayValue(vs ...Value) Value { return Value{Kind: Array, arr: vs} }

func ObjectValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Kind: Object, obj: m}
}

func (v Value) IsNull() bool { return v.Kind == Null }
func (v Value) Bool() bool { return v.b }
func (v Value) Int() int64 { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Str() string { return v.s }
func (v Value) Array() []Value { return v.arr }
func (v Value) Object() map[string]Value { return v.obj }

// Decode 解析 params 字段. 缺省或 null 视为无参数, 命名参数不支持
func Decode(raw json.RawMessage) ([]Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	v, err := Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if v.Kind != Array {
		return nil, pkgErrors.InvalidParameter("params must be a positional list")
	}
	return v.arr, nil
}

// Parse 解析任意 JSON 文本为 Value
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, pkgErrors.Wrap(pkgErrors.CodeBadRequest, "Invalid parameter", err)
	}
	return FromAny(raw), nil
}

// FromAny 把 UseNumber 解码得到的 interface{} 转换为 Value
func FromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case json.Number:
		return fromNumber(t)
	case string:
		return StringValue(t)
	case int:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case float64:
		return FloatValue(t)
	case []interface{}:
		vs := make([]Value, 0, len(t))
		for _, item := range t {
			vs = append(vs, FromAny(item))
		}
		return ArrayValue(vs...)
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return ObjectValue(m)
	default:
		return NullValue()
	}
}

// fromNumber 没有小数点和指数的数字才是整数, 1.0 是浮点
func fromNumber(n json.Number) Value {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return IntValue(i)
	}
	f, _ := n.Float64()
	return FloatValue(f)
}

// Truthy 与动态语言的真值判断一致: 空串/0/空集合/null/false 为假
func Truthy(v Value) bool {
	switch v.Kind {
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case String:
		return v.s != ""
	case Array:
		return len(v.arr) > 0
	case Object:
		return len(v.obj) > 0
	default:
		return false
	}
}
