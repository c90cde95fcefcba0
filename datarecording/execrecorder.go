package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTableName = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a program run.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the program was run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
	now      func() time.Time
}

// NewExecRecorder creates an ExecRecorder and its table.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		recorder: recorder,
		now:      time.Now,
	}

	recorder.CreateTable(execTableName, ExecInfo{})

	return e
}

// Start records the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.Record("Start Time", e.now().Format(timeLayout))
	e.Record("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Record("Working Directory", cwd)
}

// Record adds a property of the run.
func (e *ExecRecorder) Record(property, value string) {
	e.entries = append(e.entries, ExecInfo{Property: property, Value: value})
}

// End writes all properties along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(execTableName, entry)
	}

	e.recorder.InsertData(execTableName,
		ExecInfo{"End Time", e.now().Format(timeLayout)})

	e.entries = nil

	e.recorder.Flush()
}
