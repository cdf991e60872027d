package moga

import (
	"flag"
	"fmt"
)

// Verbose enables progress output on stdout. Fatal conditions are
// reported regardless of this setting.
var Verbose bool

func Vprint(a ...interface{}) {
	if Verbose {
		fmt.Print(a...)
	}
}

func Vprintf(format string, v ...interface{}) {
	if Verbose {
		fmt.Printf(format, v...)
	}
}

func Vprintln(v ...interface{}) {
	if Verbose {
		fmt.Println(v...)
	}
}

func PrintFlagDefaults() {
	flag.VisitAll(func(fg *flag.Flag) {
		fmt.Printf("--%s=\"%s\"\n\t%s\n", fg.Name, fg.DefValue, fg.Usage)
	})
}
