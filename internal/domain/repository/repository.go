// Package repository 定义数据访问层接口
package repository

import (
	"errors"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")
