package domain

// LoggerFactory creates loggers tagged with a component name
type LoggerFactory interface {
	CreateLogger(component string) Logger
}
