// Package logger configures logrus for the armature command line.
package logger

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogOptions controls level, colour and file output.
type LogOptions struct {
	// Verbose switches the level from info to debug.
	Verbose bool
	// DisableColor turns off ANSI colours on the console.
	DisableColor bool
	// LogToFile adds a daily-rotated log file under OutputPath.
	LogToFile bool
	// OutputPath is the log directory, DefaultLogDir when empty.
	OutputPath string
}

// Init configures the standard logger and returns it.
func Init(options LogOptions) (*logrus.Logger, error) {
	log := logrus.StandardLogger()
	if err := configure(log, options); err != nil {
		return nil, err
	}
	return log, nil
}

// New returns a separately configured logger writing to out.
func New(out io.Writer, options LogOptions) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	if err := configure(log, options); err != nil {
		return nil, err
	}
	return log, nil
}

func configure(log *logrus.Logger, options LogOptions) error {
	if options.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetFormatter(&Formatter{
		DisableColor: options.DisableColor,
	})

	if options.LogToFile {
		fh, err := NewFileHook(options.OutputPath)
		if err != nil {
			return errors.Errorf("failed to init log file hook: %v", err)
		}
		log.AddHook(fh)
	}

	return nil
}
