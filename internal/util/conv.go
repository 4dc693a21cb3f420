package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNonNegativeInt 空字符串返回默认值
func ParseNonNegativeInt(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("value must not be negative, got %d", n)
	}
	return n, nil
}

// OptionalString 空字符串视为未提供，其余原样保留
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RoundTo 四舍五入（远离零）到指定小数位
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
