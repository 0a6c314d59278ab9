package glauber

type Logger interface {
	Info(message string, module string)
	Error(string)
}

var logger Logger = discardLogger{}

func SetLogger(l Logger) {
	if l == nil {
		l = discardLogger{}
	}
	logger = l
}

type discardLogger struct{}

func (discardLogger) Info(string, string) {}
func (discardLogger) Error(string)        {}
