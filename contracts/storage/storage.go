package storage

import (
	"context"
	"io"
)

// Store 保存导出文件的对象存储
type Store interface {
	// PutStream 写入文件内容
	PutStream(ctx context.Context, file string, rs io.Reader) error
	// GetStream 读取文件内容
	GetStream(ctx context.Context, file string) (io.ReadCloser, error)
	// Exists 文件是否存在
	Exists(ctx context.Context, file string) bool
	// Delete 删除文件
	Delete(ctx context.Context, file ...string) error
	// Url 文件的访问地址
	Url(file string) string
}
