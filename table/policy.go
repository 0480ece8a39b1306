package table

import (
	"fmt"
	"strings"
)

// ExceptionPolicy 读取时单元格出错的处理方式，严重程度依次递增
type ExceptionPolicy int

const (
	// RaiseCellException 第一个出错的单元格立即返回
	RaiseCellException ExceptionPolicy = iota + 1
	// RaiseRowException 一行的全部错误合并后返回
	RaiseRowException
	// RaiseSheetException 读完整个工作表后返回所有出错的行
	RaiseSheetException
	// IgnoreRow 跳过出错的行
	IgnoreRow
)

var policyNames = map[ExceptionPolicy]string{
	RaiseCellException:  "RaiseCellException",
	RaiseRowException:   "RaiseRowException",
	RaiseSheetException: "RaiseSheetException",
	IgnoreRow:           "IgnoreRow",
}

func (p ExceptionPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ExceptionPolicy(%d)", int(p))
}

// Valid 是否为已定义的处理方式
func (p ExceptionPolicy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// Satisfies 按严重程度比较，p 不高于 tier 时成立
func (p ExceptionPolicy) Satisfies(tier ExceptionPolicy) bool {
	return p <= tier
}

// ParsePolicy 按名称解析，不区分大小写
func ParsePolicy(s string) (ExceptionPolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, Error.New("unknown exception policy %q", s)
}
