package export

import "github.com/opdss/xltable/contracts/event"

const (
	// TopicPart 一个文件写完
	TopicPart event.Topic = "export.part"
	// TopicDone 导出完成，File 为最终文件
	TopicDone event.Topic = "export.done"
)

// Progress 导出进度
type Progress struct {
	topic event.Topic
	Part  int    //文件序号，从 0 开始，导出完成时为文件总数
	Rows  int    //本文件的行数
	Total int    //目前为止的总行数
	File  string //文件路径
}

func (p Progress) Topic() event.Topic { return p.topic }

func (p Progress) Payload() any { return p }

func (o *options) publish(p Progress) {
	for _, s := range o.subscribers {
		s.Handle(p)
	}
}

// notify 每写完一个文件发布 TopicPart
func (o *options) notify(write part) part {
	if len(o.subscribers) == 0 {
		return write
	}
	return func(b *batch, idx int) (exportFile, error) {
		ef, err := write(b, idx)
		if err == nil {
			o.publish(Progress{topic: TopicPart, Part: idx, Rows: b.count, Total: b.src.total, File: ef.Filepath()})
		}
		return ef, err
	}
}
