package data

import (
	"errors"
	"strconv"
)

// ErrInvalidRuntimeFormat 自定义解析错误
var ErrInvalidRuntimeFormat = errors.New("duration must be a whole number of minutes")

// Runtime 电影时长, 单位为分钟
type Runtime int32

func (r Runtime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(r), 10)), nil
}

// UnmarshalJSON 只接受 JSON 整数, 字符串和小数都视为格式错误
func (r *Runtime) UnmarshalJSON(jsonValue []byte) error {
	s := string(jsonValue)
	if s == "null" {
		return nil
	}

	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return ErrInvalidRuntimeFormat
	}

	*r = Runtime(i)

	return nil
}
