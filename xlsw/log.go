package xlsw

import (
	"os"

	"github.com/UNO-SOFT/zlog/v2"
)

var verbose zlog.VerboseVar

// defaultLogger is what a Workbook logs through until SetLogger is called.
var defaultLogger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()
