package params

import (
	"strconv"

	"tcms/internal/dto"
	pkgErrors "tcms/pkg/errors"
)

// Arity 校验位置参数个数在 [min, max] 之间
func Arity(args []Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return pkgErrors.InvalidParameter("expected %d parameters, got %d", min, len(args))
		}
		return pkgErrors.InvalidParameter("expected %d to %d parameters, got %d", min, max, len(args))
	}
	return nil
}

// ID 标识符必须是整数; 多个ID组成的列表同样拒绝
func ID(v Value, name string) (int64, error) {
	if v.Kind != Int {
		return 0, pkgErrors.InvalidParameter("%s must be an integer", name)
	}
	return v.i, nil
}

// Sortkey 非整数时返回 false, 调用方不做写入
func Sortkey(v Value) (int64, bool) {
	if v.Kind != Int {
		return 0, false
	}
	return v.i, true
}

// ProductRef 产品引用: 整数按ID, 非空字符串按名称
func ProductRef(v Value) (dto.ProductRef, error) {
	switch v.Kind {
	case Int:
		return dto.ProductByID(v.i), nil
	case String:
		if v.s == "" {
			return dto.ProductRef{}, pkgErrors.ErrEmptyProductName
		}
		return dto.ProductByName(v.s), nil
	default:
		return dto.ProductRef{}, pkgErrors.ErrUnknownProductType
	}
}

// BuildName 字符串或数字可作为构建名称, 其他类型返回 false
func BuildName(v Value) (string, bool) {
	switch v.Kind {
	case String:
		return v.s, v.s != ""
	case Int:
		return strconv.FormatInt(v.i, 10), true
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Fields 字段映射, 允许为空
func Fields(v Value, name string) (map[string]Value, error) {
	if v.Kind != Object {
		return nil, pkgErrors.InvalidParameter("%s must be a mapping", name)
	}
	return v.obj, nil
}

// Text 字符串字段, 数字按文本处理
func Text(v Value, name string) (string, error) {
	switch v.Kind {
	case String:
		return v.s, nil
	case Int, Float:
		s, _ := BuildName(v)
		return s, nil
	default:
		return "", pkgErrors.InvalidParameter("%s must be a string", name)
	}
}

// OptionalText null 返回 nil, 其余同 Text
func OptionalText(v Value, name string) (*string, error) {
	if v.Kind == Null {
		return nil, nil
	}
	s, err := Text(v, name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Flag 布尔字段, 整数 0/1 也接受
func Flag(v Value, name string) (bool, error) {
	switch v.Kind {
	case Bool:
		return v.b, nil
	case Int:
		if v.i == 0 || v.i == 1 {
			return v.i == 1, nil
		}
	}
	return false, pkgErrors.InvalidParameter("%s must be a boolean", name)
}
