package logging

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Frames between a caller and zap's Check: the public method and impl.log.
const callerSkip = 2

// impl is a Logger backed by a *zap.Logger whose core tees entries out to every appender. The
// appender list is owned by the logger; subloggers start from a copy.
type impl struct {
	level     zap.AtomicLevel
	appenders []Appender
	logger    *zap.Logger
}

func newImpl(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	imp := &impl{level: zap.NewAtomicLevelAt(level.AsZap()), appenders: appenders}
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(callerSkip)}
	if inUTC {
		opts = append(opts, zap.WithClock(utcClock{}))
	}
	imp.logger = zap.New(imp.tee(nil), opts...).Named(name)
	return imp
}

// tee ignores the core it is handed: the appenders and level of imp are the only outputs.
func (imp *impl) tee(zapcore.Core) zapcore.Core {
	cores := make([]zapcore.Core, 0, len(imp.appenders))
	for _, appender := range imp.appenders {
		cores = append(cores, &appenderCore{LevelEnabler: imp.level, appender: appender})
	}
	return zapcore.NewTee(cores...)
}

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders[:len(imp.appenders):len(imp.appenders)], appender)
	imp.logger = imp.logger.WithOptions(zap.WrapCore(imp.tee))
}

func (imp *impl) SetLevel(level Level) {
	imp.level.SetLevel(level.AsZap())
}

func (imp *impl) GetLevel() Level {
	return levelFromZap(imp.level.Level())
}

func (imp *impl) Sublogger(subname string) Logger {
	sub := &impl{
		level:     zap.NewAtomicLevelAt(imp.level.Level()),
		appenders: imp.appenders,
	}
	sub.logger = imp.logger.Named(subname).WithOptions(zap.WrapCore(sub.tee))
	return sub
}

func (imp *impl) Sync() error {
	return imp.logger.Sync()
}

func (imp *impl) log(level Level, msg string, fields ...zapcore.Field) {
	if ce := imp.logger.Check(level.AsZap(), msg); ce != nil {
		ce.Write(fields...)
	}
}

func (imp *impl) enabled(level Level) bool {
	return imp.level.Enabled(level.AsZap())
}

// keyValueFields pairs up keysAndValues. A trailing key without a value is kept with an error value.
func keyValueFields(keysAndValues []interface{}) []zapcore.Field {
	ret := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for idx := 0; idx < len(keysAndValues); idx += 2 {
		key := fmt.Sprint(keysAndValues[idx])
		if idx+1 == len(keysAndValues) {
			ret = append(ret, zap.NamedError(key, errors.New("unpaired log key")))
			break
		}
		ret = append(ret, zap.Any(key, keysAndValues[idx+1]))
	}
	return ret
}

func (imp *impl) Debug(args ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.log(DEBUG, fmt.Sprint(args...))
	}
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.log(DEBUG, fmt.Sprintf(template, args...))
	}
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(DEBUG) {
		imp.log(DEBUG, msg, keyValueFields(keysAndValues)...)
	}
}

func (imp *impl) Info(args ...interface{}) {
	if imp.enabled(INFO) {
		imp.log(INFO, fmt.Sprint(args...))
	}
}

func (imp *impl) Infof(template string, args ...interface{}) {
	if imp.enabled(INFO) {
		imp.log(INFO, fmt.Sprintf(template, args...))
	}
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	if imp.enabled(INFO) {
		imp.log(INFO, msg, keyValueFields(keysAndValues)...)
	}
}

func (imp *impl) Warn(args ...interface{}) {
	if imp.enabled(WARN) {
		imp.log(WARN, fmt.Sprint(args...))
	}
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	if imp.enabled(WARN) {
		imp.log(WARN, fmt.Sprintf(template, args...))
	}
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(WARN) {
		imp.log(WARN, msg, keyValueFields(keysAndValues)...)
	}
}

func (imp *impl) Error(args ...interface{}) {
	if imp.enabled(ERROR) {
		imp.log(ERROR, fmt.Sprint(args...))
	}
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	if imp.enabled(ERROR) {
		imp.log(ERROR, fmt.Sprintf(template, args...))
	}
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	if imp.enabled(ERROR) {
		imp.log(ERROR, msg, keyValueFields(keysAndValues)...)
	}
}

// appenderCore adapts an Appender to a zapcore.Core gated by the owning logger's level.
type appenderCore struct {
	zapcore.LevelEnabler
	appender Appender
	context  []zapcore.Field
}

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	return &appenderCore{
		LevelEnabler: c.LevelEnabler,
		appender:     c.appender,
		context:      append(c.context[:len(c.context):len(c.context)], fields...),
	}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if len(c.context) > 0 {
		fields = append(c.context[:len(c.context):len(c.context)], fields...)
	}
	return c.appender.Write(entry, fields)
}

func (c *appenderCore) Sync() error {
	return c.appender.Sync()
}

type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

func (utcClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
