package interfaces

// Notifier publishes transient toast messages. Calls never block.
type Notifier interface {
	Success(text string)
	Error(text string)
	Info(text string)
	Warning(text string)
}

// Navigator changes the current route
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// Navigate calls f(path)
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}
