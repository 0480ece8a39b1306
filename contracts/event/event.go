package event

type Topic string

type Event interface {
	Topic() Topic
	Payload() any
}

type Subscriber interface {
	Handle(Event)
}

type SubscribeFunc func(Event)

func (f SubscribeFunc) Handle(evt Event) {
	f(evt)
}
