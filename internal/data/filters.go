package data

import (
	"github.com/liliang-cn/catalog/internal/validator"
)

// MovieFilters 电影列表的过滤条件, MinimumDuration 为 0 表示不过滤
type MovieFilters struct {
	MinimumDuration int
}

// ValidateMovieFilters 只在客户端提供了 minimum-duration 时调用
func ValidateMovieFilters(v *validator.Validator, f MovieFilters) {
	v.Check(f.MinimumDuration > 0, "minimum-duration", "must be greater than zero")
}

func (f MovieFilters) match(m Movie) bool {
	return f.MinimumDuration <= 0 || int(m.Duration) >= f.MinimumDuration
}

// TextFilters 文本列表的过滤条件, Level 为空表示不过滤
type TextFilters struct {
	Level string
}

// ValidateTextFilters 校验过滤条件
func ValidateTextFilters(v *validator.Validator, f TextFilters) {
	if f.Level != "" {
		v.Check(validator.In(f.Level, Levels...), "level", "must be one of easy, medium or hard")
	}
}

func (f TextFilters) match(t Text) bool {
	return f.Level == "" || t.Level == f.Level
}
