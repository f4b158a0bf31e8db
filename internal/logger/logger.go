package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init builds the process logger and installs it as the zap global, so the rest
// of the code base logs through zap.L().
func Init(environment, level, file string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}

	var encoderConf zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if environment == "development" {
		encoderConf = zap.NewDevelopmentEncoderConfig()
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	} else {
		encoderConf = zap.NewProductionEncoderConfig()
		encoderConf.TimeKey = "time"
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConf)
	}

	dynamic := zap.NewAtomicLevelAt(lvl)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), dynamic),
	}

	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     14,
			Compress:   true,
		}
		fileConf := zap.NewProductionEncoderConfig()
		fileConf.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConf), zapcore.AddSync(rotator), dynamic))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(l)
	atomicLevel = dynamic

	return nil
}

var atomicLevel = zap.NewAtomicLevel()

// SetLevel changes the level of the logger installed by Init. Unknown levels are ignored.
func SetLevel(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		zap.L().Warn("ignoring unknown log level", zap.String("level", level))
		return
	}
	atomicLevel.SetLevel(lvl)
}
