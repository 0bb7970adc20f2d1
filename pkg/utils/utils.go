package utils

import (
	"context"
	"log"
	"runtime"
	"strings"

	"golang-backtest/pkg/logger"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ShouldContinue reports whether the context is still alive, logging the
// caller when it is not. Optimization sweeps call this between units of work.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}
