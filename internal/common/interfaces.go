package common

// Observer receives dispatched events.
type Observer interface {
	Update(event Event) error
	Name() string
}

// Subject is the dispatcher side of the observer pattern.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event Event)
	NotifyAsync(event Event)
}

type EmailService interface {
	SendEmail(to, subject, body string) error
}
