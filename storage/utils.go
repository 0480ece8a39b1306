// Package storage 保存导出文件的对象存储实现
package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen mimetype 默认读取的长度
const sniffLen = 3072

// detect 读取开头的内容判断类型，返回的 Reader 仍然包含完整内容
func detect(rs io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rs, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), rs), nil
}

// MimeType 本地文件的类型
func MimeType(file string) (string, error) {
	mtype, err := mimetype.DetectFile(file)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

func objectKey(file string) string {
	return strings.TrimPrefix(strings.TrimPrefix(file, "./"), "/")
}
