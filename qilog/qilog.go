// Package qilog extends the standard library's logging with multiple named
// loggers, each gated at its own level. Call AddLogger for each desired
// destination, then use the package-level logging functions to fan a record
// out to every registered logger whose level permits it.
package qilog

import (
	"flag"
	"fmt"
	golog "log"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

var (
	FlagLevel   = flag.String("level", "warn", "set log level: [debug, info, warn, error, fatal]")
	FlagVerbose = flag.Bool("v", true, "log on stderr")
	FlagFile    = flag.String("logfile", "", "also log to file")
)

type logger struct {
	*golog.Logger
	level Level
	color bool
}

var (
	loggers = make(map[string]*logger)
	lock    sync.RWMutex
)

// AddLogger registers a named logger writing to output, filtered to level
// or higher. Registering under an existing name replaces it.
func AddLogger(name string, output io.Writer, level Level, color bool) {
	lock.Lock()
	defer lock.Unlock()

	loggers[name] = &logger{golog.New(output, "", golog.LstdFlags), level, color}
}

// DelLogger removes a previously registered logger.
func DelLogger(name string) {
	lock.Lock()
	defer lock.Unlock()

	delete(loggers, name)
}

// Loggers returns the names of all registered loggers.
func Loggers() []string {
	lock.RLock()
	defer lock.RUnlock()

	ret := make([]string, 0, len(loggers))
	for k := range loggers {
		ret = append(ret, k)
	}
	return ret
}

// SetLevel changes the level for a named logger.
func SetLevel(name string, level Level) error {
	lock.Lock()
	defer lock.Unlock()

	l, ok := loggers[name]
	if !ok {
		return fmt.Errorf("no such logger: %v", name)
	}
	l.level = level
	return nil
}

// GetLevel returns the level for a named logger.
func GetLevel(name string) (Level, error) {
	lock.RLock()
	defer lock.RUnlock()

	l, ok := loggers[name]
	if !ok {
		return -1, fmt.Errorf("no such logger: %v", name)
	}
	return l.level, nil
}

// WillLog reports whether any registered logger would emit a record at
// level. Useful to skip building an expensive log message.
func WillLog(level Level) bool {
	lock.RLock()
	defer lock.RUnlock()

	for _, l := range loggers {
		if l.level <= level {
			return true
		}
	}
	return false
}

// Init configures logging from the FlagLevel/FlagVerbose/FlagFile flags.
// Binaries call this after flag.Parse.
func Init() {
	level, err := ParseLevel(*FlagLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := runtime.GOOS != "windows"

	if *FlagVerbose {
		AddLogger("stderr", os.Stderr, level, color)
	}

	if *FlagFile != "" {
		if err := os.MkdirAll(filepath.Dir(*FlagFile), 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		f, err := os.OpenFile(*FlagFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		AddLogger("file", f, level, false)
	}
}

func emit(level Level, format string, arg ...interface{}) {
	lock.RLock()
	defer lock.RUnlock()

	msg := fmt.Sprintf(format, arg...)
	for _, l := range loggers {
		if l.level <= level {
			l.Output(3, level.String()+" "+msg)
		}
	}
}

func emitln(level Level, arg ...interface{}) {
	lock.RLock()
	defer lock.RUnlock()

	msg := fmt.Sprintln(arg...)
	for _, l := range loggers {
		if l.level <= level {
			l.Output(3, level.String()+" "+msg)
		}
	}
}

func Debug(format string, arg ...interface{}) { emit(DEBUG, format, arg...) }
func Info(format string, arg ...interface{})  { emit(INFO, format, arg...) }
func Warn(format string, arg ...interface{})  { emit(WARN, format, arg...) }
func Error(format string, arg ...interface{}) { emit(ERROR, format, arg...) }

func Fatal(format string, arg ...interface{}) {
	emit(FATAL, format, arg...)
	os.Exit(1)
}

func Debugln(arg ...interface{}) { emitln(DEBUG, arg...) }
func Infoln(arg ...interface{})  { emitln(INFO, arg...) }
func Warnln(arg ...interface{}) { emitln(WARN, arg...) }
func Errorln(arg ...interface{}) { emitln(ERROR, arg...) }

func Fatalln(arg ...interface{}) {
	emitln(FATAL, arg...)
	os.Exit(1)
}
