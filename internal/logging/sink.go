package logging

// MessageSink writes combat messages as log lines carrying Fields. The zero
// Level logs them at debug.
type MessageSink struct {
	Level  Level
	Fields Fields
}

func (s MessageSink) Publish(msg string) {
	switch s.Level {
	case LevelDebug:
		Debug(msg, s.Fields)
	case LevelWarn:
		Warn(msg, s.Fields)
	default:
		Info(msg, s.Fields)
	}
}
