package attackmapper

import "github.com/siriussecurity/mitre-attack-mapping/internal/layer"

type runLogger struct {
	delegate *layer.RunLogger
}

func newRunLogger(path string) (*runLogger, error) {
	l, err := layer.NewRunLogger(path)
	if err != nil {
		return nil, err
	}
	return &runLogger{delegate: l}, nil
}

func (l *runLogger) close() {
	if l == nil || l.delegate == nil {
		return
	}
	l.delegate.Close()
}

func (l *runLogger) info(event string, fields map[string]interface{}) {
	if l == nil || l.delegate == nil {
		return
	}
	l.delegate.Info(event, fields)
}

func (l *runLogger) warn(event string, fields map[string]interface{}) {
	if l == nil || l.delegate == nil {
		return
	}
	l.delegate.Warn(event, fields)
}
