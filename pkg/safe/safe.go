package safe

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Run calls f and recovers any panic, logging it with the stack.
func Run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from panic",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
				slog.String("component", "safe.Run"))
		}
	}()
	f()
}
