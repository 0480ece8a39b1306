package iterator

type Iterator[T any] interface {
	//Next 是否有下一条数据
	Next() bool
	//Value 获取下一条数据
	Value() T
}

// ErrIterator 迭代过程中可能失败的迭代器
type ErrIterator[T any] interface {
	Iterator[T]
	//Err 迭代结束后返回遇到的错误
	Err() error
}
