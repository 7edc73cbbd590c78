package logger

// HookLogger adapts the global zerolog logger to the printf-style interface
// the hook bus expects
type HookLogger struct{}

func (HookLogger) Debug(format string, args ...interface{}) { zlog.Debug().Msgf(format, args...) }
func (HookLogger) Info(format string, args ...interface{})  { zlog.Info().Msgf(format, args...) }
func (HookLogger) Warn(format string, args ...interface{})  { zlog.Warn().Msgf(format, args...) }
func (HookLogger) Error(format string, args ...interface{}) { zlog.Error().Msgf(format, args...) }
