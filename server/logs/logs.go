/******************************************************************************
 *
 *  Description :
 *    Package exposes info, warning and error loggers.
 *
 *****************************************************************************/
package logs

import (
	"io"
	"log"
	"os"
)

var (
	// Info is the logger for informational messages.
	Info *log.Logger
	// Warning is the logger for recoverable problems.
	Warning *log.Logger
	// Error is the logger for failures.
	Error *log.Logger
)

// Init initializes the loggers. It must be called before any of the
// loggers are used. Panics in handlers are preferable to nil checks here.
func Init(out io.Writer, flags int) {
	if out == nil {
		out = os.Stdout
	}
	Info = log.New(out, "I", flags)
	Warning = log.New(out, "W", flags)
	Error = log.New(out, "E", flags)
}

func init() {
	// Default configuration, overridden from main once flags are parsed.
	Init(os.Stdout, log.LstdFlags|log.Lshortfile)
}
